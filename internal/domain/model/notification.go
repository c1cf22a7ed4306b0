package model

import "time"

// RequestDetails is the blood-request summary embedded in a donor notification.
type RequestDetails struct {
	PatientName   string       `json:"patient_name"`
	HospitalName  string       `json:"hospital_name"`
	HospitalCity  string       `json:"hospital_city"`
	BloodGroup    BloodGroup   `json:"blood_group,omitempty"`
	UnitsRequired int          `json:"units_required"`
	UrgencyLevel  UrgencyLevel `json:"urgency_level"`
	Diagnosis     string       `json:"diagnosis"`
}

// Notification asks a donor to help with a blood request.
type Notification struct {
	ID             int64          `json:"id"`
	RequestDetails RequestDetails `json:"request_details"`
	Status         string         `json:"status,omitempty"`
	CreatedAt      *time.Time     `json:"created_at,omitempty"`
}

// NotificationResponse is the donor's answer to a notification.
type NotificationResponse string

const (
	ResponseAccept  NotificationResponse = "accept"
	ResponseDecline NotificationResponse = "decline"
)

// ParseNotificationResponse accepts only "accept" and "decline".
func ParseNotificationResponse(v string) (NotificationResponse, bool) {
	switch r := NotificationResponse(v); r {
	case ResponseAccept, ResponseDecline:
		return r, true
	default:
		return "", false
	}
}

// WithoutNotification returns list minus the notification with id. The input is not modified.
func WithoutNotification(list []Notification, id int64) []Notification {
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
