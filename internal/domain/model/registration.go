package model

import "encoding/json"

// DonorRegistration is the payload for POST /auth/register/donor/.
type DonorRegistration struct {
	Username              string      `json:"username"`
	Email                 string      `json:"email"`
	Password              string      `json:"password"`
	Password2             string      `json:"password2"`
	PhoneNumber           string      `json:"phone_number"`
	FullName              string      `json:"full_name"`
	DateOfBirth           string      `json:"date_of_birth"`
	Gender                Gender      `json:"gender"`
	BloodGroup            BloodGroup  `json:"blood_group"`
	Weight                json.Number `json:"weight,omitempty"`
	Height                json.Number `json:"height,omitempty"`
	EmergencyContact      string      `json:"emergency_contact"`
	Address               string      `json:"address"`
	City                  string      `json:"city"`
	State                 string      `json:"state"`
	Country               string      `json:"country"`
	Pincode               string      `json:"pincode"`
	HasChronicDisease     bool        `json:"has_chronic_disease"`
	ChronicDiseaseDetails string      `json:"chronic_disease_details"`
	RecentMedications     string      `json:"recent_medications"`
	RecentSurgeries       string      `json:"recent_surgeries"`
	Allergies             string      `json:"allergies"`
}

// Redacted returns a copy safe to re-render in a form: passwords are never echoed.
func (r DonorRegistration) Redacted() DonorRegistration {
	r.Password, r.Password2 = "", ""
	return r
}

// StaffAccount is the hospital staff login created alongside a hospital.
type StaffAccount struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Password2   string `json:"password2"`
	PhoneNumber string `json:"phone_number"`
	UserType    string `json:"user_type"`
}

// HospitalRegistration is the payload for POST /auth/register/hospital/.
type HospitalRegistration struct {
	Name          string       `json:"name"`
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	PhoneNumber   string       `json:"phone_number"`
	Address       string       `json:"address"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	Country       string       `json:"country"`
	LicenseNumber string       `json:"license_number"`
	User          StaffAccount `json:"user"`
}

// Redacted returns a copy without the staff passwords.
func (r HospitalRegistration) Redacted() HospitalRegistration {
	r.User.Password, r.User.Password2 = "", ""
	return r
}

// Registration outcome messages shown on the login page.
const (
	DonorRegisteredMessage    = "Registration successful! Please login to continue."
	HospitalRegisteredMessage = "Hospital registration submitted for verification! You can now login with your staff account."
)
