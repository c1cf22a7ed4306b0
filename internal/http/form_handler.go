package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	"github.com/bloodconnect/bloodconnect-web/internal/http/validation"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// Field length limits mirror the backend's column sizes.
const (
	maxUsernameLen = 150
	maxNameLen     = 200
	maxPhoneLen    = 20
	maxAddressLen  = 500
	maxShortLen    = 100
	maxNotesLen    = 1000
	minPasswordLen = 8
	maxPasswordLen = 128
)

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

func checkbox(r *http.Request, key string) bool {
	switch r.PostFormValue(key) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func bloodGroupOptions() []string {
	groups := model.BloodGroups()
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}

func genderOptions() []string {
	genders := model.Genders()
	out := make([]string, len(genders))
	for i, g := range genders {
		out[i] = string(g)
	}
	return out
}

func parseLoginForm(r *http.Request) (string, string, map[string]string) {
	username := formValue(r, "username")
	password := r.PostFormValue("password")
	errs := validation.New().
		Validate("username", username, validation.Required("Username", maxUsernameLen)).
		Validate("password", password, validation.Required("Password", maxPasswordLen)).
		Errors()
	return username, password, errs
}

// parseDonorRegistration reads the donor sign-up form.
func parseDonorRegistration(r *http.Request) (model.DonorRegistration, map[string]string) {
	reg := model.DonorRegistration{
		Username:              formValue(r, "username"),
		Email:                 formValue(r, "email"),
		Password:              r.PostFormValue("password"),
		Password2:             r.PostFormValue("password2"),
		PhoneNumber:           formValue(r, "phone_number"),
		FullName:              formValue(r, "full_name"),
		DateOfBirth:           formValue(r, "date_of_birth"),
		Gender:                model.Gender(formValue(r, "gender")),
		BloodGroup:            model.BloodGroup(formValue(r, "blood_group")),
		Weight:                json.Number(formValue(r, "weight")),
		Height:                json.Number(formValue(r, "height")),
		EmergencyContact:      formValue(r, "emergency_contact"),
		Address:               formValue(r, "address"),
		City:                  formValue(r, "city"),
		State:                 formValue(r, "state"),
		Country:               formValue(r, "country"),
		Pincode:               formValue(r, "pincode"),
		HasChronicDisease:     checkbox(r, "has_chronic_disease"),
		ChronicDiseaseDetails: formValue(r, "chronic_disease_details"),
		RecentMedications:     formValue(r, "recent_medications"),
		RecentSurgeries:       formValue(r, "recent_surgeries"),
		Allergies:             formValue(r, "allergies"),
	}
	errs := validation.New().
		Validate("username", reg.Username, validation.Required("Username", maxUsernameLen)).
		Validate("email", reg.Email, validation.Email("Email")).
		Validate("password", reg.Password, validation.RequiredRange("Password", minPasswordLen, maxPasswordLen)).
		Validate("password2", reg.Password2, validation.Matches("Password confirmation", reg.Password)).
		Validate("full_name", reg.FullName, validation.Required("Full name", maxNameLen)).
		Validate("phone_number", reg.PhoneNumber, validation.Required("Phone number", maxPhoneLen)).
		Validate("date_of_birth", reg.DateOfBirth, validation.Required("Date of birth", maxShortLen)).
		Validate("gender", string(reg.Gender), validation.OneOf("Gender", genderOptions())).
		Validate("blood_group", string(reg.BloodGroup), validation.OneOf("Blood group", bloodGroupOptions())).
		Validate("weight", string(reg.Weight), validation.Decimal("Weight")).
		Validate("height", string(reg.Height), validation.Decimal("Height")).
		Validate("emergency_contact", reg.EmergencyContact, validation.Optional("Emergency contact", maxPhoneLen)).
		Validate("address", reg.Address, validation.Optional("Address", maxAddressLen)).
		Validate("city", reg.City, validation.Required("City", maxShortLen)).
		Validate("state", reg.State, validation.Optional("State", maxShortLen)).
		Validate("country", reg.Country, validation.Optional("Country", maxShortLen)).
		Validate("pincode", reg.Pincode, validation.Optional("Pincode", maxPhoneLen)).
		Validate("chronic_disease_details", reg.ChronicDiseaseDetails, validation.Optional("Details", maxNotesLen)).
		Errors()
	return reg, errs
}

// parseHospitalRegistration reads the hospital sign-up form, including the
// primary staff account.
func parseHospitalRegistration(r *http.Request) (model.HospitalRegistration, map[string]string) {
	reg := model.HospitalRegistration{
		Name:          formValue(r, "name"),
		Username:      formValue(r, "hospital_username"),
		Email:         formValue(r, "email"),
		PhoneNumber:   formValue(r, "phone_number"),
		Address:       formValue(r, "address"),
		City:          formValue(r, "city"),
		State:         formValue(r, "state"),
		Country:       formValue(r, "country"),
		LicenseNumber: formValue(r, "license_number"),
		User: model.StaffAccount{
			Username:    formValue(r, "staff_username"),
			Email:       formValue(r, "staff_email"),
			Password:    r.PostFormValue("staff_password"),
			Password2:   r.PostFormValue("staff_password2"),
			PhoneNumber: formValue(r, "staff_phone_number"),
			UserType:    "hospital_staff",
		},
	}
	if reg.Username == "" {
		reg.Username = reg.User.Username
	}
	errs := validation.New().
		Validate("name", reg.Name, validation.Required("Hospital name", maxNameLen)).
		Validate("email", reg.Email, validation.Email("Hospital email")).
		Validate("phone_number", reg.PhoneNumber, validation.Required("Phone number", maxPhoneLen)).
		Validate("address", reg.Address, validation.Required("Address", maxAddressLen)).
		Validate("city", reg.City, validation.Required("City", maxShortLen)).
		Validate("state", reg.State, validation.Optional("State", maxShortLen)).
		Validate("country", reg.Country, validation.Optional("Country", maxShortLen)).
		Validate("license_number", reg.LicenseNumber, validation.Required("License number", maxShortLen)).
		Validate("user.username", reg.User.Username, validation.Required("Staff username", maxUsernameLen)).
		Validate("user.email", reg.User.Email, validation.Email("Staff email")).
		Validate("user.password", reg.User.Password,
			validation.RequiredRange("Staff password", minPasswordLen, maxPasswordLen)).
		Validate("user.password2", reg.User.Password2, validation.Matches("Password confirmation", reg.User.Password)).
		Validate("user.phone_number", reg.User.PhoneNumber, validation.Optional("Staff phone", maxPhoneLen)).
		Errors()
	return reg, errs
}

// parseProfileUpdate reads the donor profile edit form.
func parseProfileUpdate(r *http.Request) (model.DonorProfileUpdate, map[string]string) {
	upd := model.DonorProfileUpdate{
		FullName:         formValue(r, "full_name"),
		PhoneNumber:      formValue(r, "phone_number"),
		Weight:           json.Number(formValue(r, "weight")),
		EmergencyContact: formValue(r, "emergency_contact"),
		Address:          formValue(r, "address"),
		City:             formValue(r, "city"),
		State:            formValue(r, "state"),
		Country:          formValue(r, "country"),
		Pincode:          formValue(r, "pincode"),
		IsAvailable:      checkbox(r, "is_available"),
	}
	errs := validation.New().
		Validate("full_name", upd.FullName, validation.Required("Full name", maxNameLen)).
		Validate("phone_number", upd.PhoneNumber, validation.Required("Phone number", maxPhoneLen)).
		Validate("weight", string(upd.Weight), validation.Decimal("Weight")).
		Validate("emergency_contact", upd.EmergencyContact, validation.Optional("Emergency contact", maxPhoneLen)).
		Validate("address", upd.Address, validation.Optional("Address", maxAddressLen)).
		Validate("city", upd.City, validation.Required("City", maxShortLen)).
		Validate("state", upd.State, validation.Optional("State", maxShortLen)).
		Validate("country", upd.Country, validation.Optional("Country", maxShortLen)).
		Validate("pincode", upd.Pincode, validation.Optional("Pincode", maxPhoneLen)).
		Errors()
	return upd, errs
}

// parseBloodRequestForm keeps the raw values so a failed submission redisplays
// exactly what was typed.
func parseBloodRequestForm(r *http.Request) (model.BloodRequestForm, map[string]string) {
	form := model.BloodRequestForm{
		PatientName:     formValue(r, "patient_name"),
		PatientAge:      formValue(r, "patient_age"),
		PatientGender:   formValue(r, "patient_gender"),
		BloodGroup:      formValue(r, "blood_group"),
		UnitsRequired:   formValue(r, "units_required"),
		HemoglobinLevel: formValue(r, "hemoglobin_level"),
		Diagnosis:       formValue(r, "diagnosis"),
		OperationID:     formValue(r, "operation_id"),
		UrgencyLevel:    model.UrgencyLevel(formValue(r, "urgency_level")),
	}
	errs := validation.New().
		Validate("patient_name", form.PatientName, validation.Required("Patient name", maxNameLen)).
		Validate("patient_age", form.PatientAge, validation.IntRange("Patient age", 0, 150)).
		Validate("patient_gender", form.PatientGender, validation.OneOf("Patient gender", genderOptions())).
		Validate("blood_group", form.BloodGroup, validation.OneOf("Blood group", bloodGroupOptions())).
		Validate("units_required", form.UnitsRequired, validation.IntRange("Units required", 1, 50)).
		Validate("hemoglobin_level", form.HemoglobinLevel, validation.Decimal("Hemoglobin level")).
		Validate("diagnosis", form.Diagnosis, validation.Required("Diagnosis", maxNotesLen)).
		Validate("operation_id", form.OperationID, validation.Optional("Operation ID", maxShortLen)).
		Errors()
	if form.HemoglobinLevel == "" {
		errs["hemoglobin_level"] = "Hemoglobin level is required."
	}
	return form, errs
}

var (
	_ FormParser[model.DonorRegistration]    = parseDonorRegistration
	_ FormParser[model.HospitalRegistration] = parseHospitalRegistration
	_ FormParser[model.DonorProfileUpdate]   = parseProfileUpdate
	_ FormParser[model.BloodRequestForm]     = parseBloodRequestForm
)
