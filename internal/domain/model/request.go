//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
)

// BloodGroup is an ABO/Rh blood group label such as "O-".
type BloodGroup string

// BloodGroups lists the groups offered in forms, in display order.
func BloodGroups() []BloodGroup {
	return []BloodGroup{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
}

// Valid reports whether g is a known blood group.
func (g BloodGroup) Valid() bool { return slices.Contains(BloodGroups(), g) }

// Gender codes accepted by the backend.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Genders lists the gender options in display order.
func Genders() []Gender { return []Gender{GenderMale, GenderFemale, GenderOther} }

// Label returns the human-readable gender.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Other"
	default:
		return string(g)
	}
}

// UrgencyLevel ranks how soon a request must be fulfilled.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// UrgencyLevels lists urgency levels from least to most urgent.
func UrgencyLevels() []UrgencyLevel {
	return []UrgencyLevel{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}
}

// Valid reports whether the urgency level is supported.
func (u UrgencyLevel) Valid() bool { return slices.Contains(UrgencyLevels(), u) }

// Label returns the capitalized level name.
func (u UrgencyLevel) Label() string {
	if u == "" {
		return ""
	}
	s := string(u)
	return strings.ToUpper(s[:1]) + s[1:]
}

// RequestStatus tracks a blood request through admin review.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

// Label returns the capitalized status name.
func (s RequestStatus) Label() string { return UrgencyLevel(s).Label() }

// BloodRequest is a hospital's request for units of blood.
type BloodRequest struct {
	ID              int64         `json:"id"`
	PatientName     string        `json:"patient_name"`
	PatientAge      int           `json:"patient_age"`
	PatientGender   Gender        `json:"patient_gender"`
	BloodGroup      BloodGroup    `json:"blood_group"`
	UnitsRequired   int           `json:"units_required"`
	HemoglobinLevel json.Number   `json:"hemoglobin_level,omitempty"`
	Diagnosis       string        `json:"diagnosis"`
	OperationID     string        `json:"operation_id,omitempty"`
	UrgencyLevel    UrgencyLevel  `json:"urgency_level"`
	Status          RequestStatus `json:"status"`
	HospitalName    string        `json:"hospital_name,omitempty"`
	HospitalCity    string        `json:"hospital_city,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// WithoutRequest returns requests minus the entry with id. The input is not modified.
func WithoutRequest(requests []BloodRequest, id int64) []BloodRequest {
	out := make([]BloodRequest, 0, len(requests))
	for _, r := range requests {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// CreateBloodRequest is the payload for POST /hospitals/blood-requests/create/.
type CreateBloodRequest struct {
	PatientName     string       `json:"patient_name"`
	PatientAge      int          `json:"patient_age"`
	PatientGender   Gender       `json:"patient_gender"`
	BloodGroup      BloodGroup   `json:"blood_group"`
	UnitsRequired   int          `json:"units_required"`
	HemoglobinLevel json.Number  `json:"hemoglobin_level"`
	Diagnosis       string       `json:"diagnosis"`
	OperationID     string       `json:"operation_id"`
	UrgencyLevel    UrgencyLevel `json:"urgency_level"`
}

// BloodRequestForm holds the raw values of the create-request form so they can be
// redisplayed after a failed submission.
type BloodRequestForm struct {
	PatientName     string
	PatientAge      string
	PatientGender   string
	BloodGroup      string
	UnitsRequired   string
	HemoglobinLevel string
	Diagnosis       string
	OperationID     string
	UrgencyLevel    UrgencyLevel
}

// NewBloodRequestForm returns the form in its initial state.
func NewBloodRequestForm() BloodRequestForm {
	return BloodRequestForm{UnitsRequired: "1", UrgencyLevel: UrgencyMedium}
}

// Payload converts the form into the API payload. Numeric fields that do not
// parse are reported as field validation errors.
func (f BloodRequestForm) Payload() (CreateBloodRequest, error) {
	age, err := strconv.Atoi(strings.TrimSpace(f.PatientAge))
	if err != nil {
		return CreateBloodRequest{}, apperrors.ValidationField("patient_age", "Patient age must be a whole number")
	}
	units, err := strconv.Atoi(strings.TrimSpace(f.UnitsRequired))
	if err != nil {
		return CreateBloodRequest{}, apperrors.ValidationField("units_required", "Units required must be a whole number")
	}
	hb := strings.TrimSpace(f.HemoglobinLevel)
	if _, err := strconv.ParseFloat(hb, 64); err != nil {
		return CreateBloodRequest{}, apperrors.ValidationField("hemoglobin_level", "Hemoglobin level must be a number")
	}
	urgency := f.UrgencyLevel
	if !urgency.Valid() {
		urgency = UrgencyMedium
	}
	return CreateBloodRequest{
		PatientName:     strings.TrimSpace(f.PatientName),
		PatientAge:      age,
		PatientGender:   Gender(f.PatientGender),
		BloodGroup:      BloodGroup(f.BloodGroup),
		UnitsRequired:   units,
		HemoglobinLevel: json.Number(hb),
		Diagnosis:       strings.TrimSpace(f.Diagnosis),
		OperationID:     strings.TrimSpace(f.OperationID),
		UrgencyLevel:    urgency,
	}, nil
}
