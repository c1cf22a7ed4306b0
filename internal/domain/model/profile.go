package model

import (
	"encoding/json"
	"net/url"
	"strings"
)

// DonorProfile is the donor's own record as returned by /donors/donor/profile/.
type DonorProfile struct {
	FullName         string      `json:"full_name"`
	Email            string      `json:"email,omitempty"`
	PhoneNumber      string      `json:"phone_number,omitempty"`
	DateOfBirth      string      `json:"date_of_birth,omitempty"`
	Gender           Gender      `json:"gender,omitempty"`
	BloodGroup       BloodGroup  `json:"blood_group"`
	Weight           json.Number `json:"weight,omitempty"`
	Height           json.Number `json:"height,omitempty"`
	EmergencyContact string      `json:"emergency_contact,omitempty"`
	Address          string      `json:"address,omitempty"`
	City             string      `json:"city,omitempty"`
	State            string      `json:"state,omitempty"`
	Country          string      `json:"country,omitempty"`
	Pincode          string      `json:"pincode,omitempty"`
	IsAvailable      bool        `json:"is_available"`
	LastDonationDate string      `json:"last_donation_date,omitempty"`
	TotalDonations   int         `json:"total_donations"`
}

// Location joins the non-empty address parts.
func (p DonorProfile) Location() string {
	return joinNonEmpty(", ", p.City, p.State, p.Country, p.Pincode)
}

// DonorProfileUpdate carries the fields a donor may edit.
type DonorProfileUpdate struct {
	FullName         string      `json:"full_name"`
	PhoneNumber      string      `json:"phone_number"`
	Weight           json.Number `json:"weight,omitempty"`
	EmergencyContact string      `json:"emergency_contact"`
	Address          string      `json:"address"`
	City             string      `json:"city"`
	State            string      `json:"state"`
	Country          string      `json:"country"`
	Pincode          string      `json:"pincode"`
	IsAvailable      bool        `json:"is_available"`
}

// UpdateFrom seeds an edit form from the current profile.
func UpdateFrom(p DonorProfile) DonorProfileUpdate {
	return DonorProfileUpdate{
		FullName:         p.FullName,
		PhoneNumber:      p.PhoneNumber,
		Weight:           p.Weight,
		EmergencyContact: p.EmergencyContact,
		Address:          p.Address,
		City:             p.City,
		State:            p.State,
		Country:          p.Country,
		Pincode:          p.Pincode,
		IsAvailable:      p.IsAvailable,
	}
}

// Apply returns p with the update's fields copied in.
func (u DonorProfileUpdate) Apply(p DonorProfile) DonorProfile {
	p.FullName = u.FullName
	p.PhoneNumber = u.PhoneNumber
	p.Weight = u.Weight
	p.EmergencyContact = u.EmergencyContact
	p.Address = u.Address
	p.City = u.City
	p.State = u.State
	p.Country = u.Country
	p.Pincode = u.Pincode
	p.IsAvailable = u.IsAvailable
	return p
}

// Donation is one entry of a donor's history.
type Donation struct {
	ID           int64  `json:"id"`
	DonationDate string `json:"donation_date"`
	HospitalName string `json:"hospital_name"`
	PatientName  string `json:"patient_name,omitempty"`
	UnitsDonated int    `json:"units_donated"`
	Notes        string `json:"notes,omitempty"`
}

// DonorOverview aggregates what the donor dashboard shows on its first tab.
type DonorOverview struct {
	Profile   DonorProfile
	Donations []Donation
}

// TotalDonations prefers the server-side counter and falls back to the history length.
func (o DonorOverview) TotalDonations() int {
	if o.Profile.TotalDonations > 0 {
		return o.Profile.TotalDonations
	}
	return len(o.Donations)
}

// LastDonation returns the most recent known donation date.
func (o DonorOverview) LastDonation() string {
	if o.Profile.LastDonationDate != "" {
		return o.Profile.LastDonationDate
	}
	latest := ""
	for _, d := range o.Donations {
		if d.DonationDate > latest {
			latest = d.DonationDate
		}
	}
	return latest
}

// HospitalProfile is the staff member's hospital.
type HospitalProfile struct {
	Name             string `json:"name"`
	LicenseNumber    string `json:"license_number"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phone_number"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
	IsActive         bool   `json:"is_active"`
	StaffDesignation string `json:"staff_designation,omitempty"`
	IsPrimaryContact bool   `json:"is_primary_contact"`
}

// Location joins the non-empty address parts.
func (h HospitalProfile) Location() string {
	return joinNonEmpty(", ", h.City, h.State, h.Country)
}

// AvailableDonor is a donor search result visible to hospital staff.
type AvailableDonor struct {
	ID               int64      `json:"id"`
	FullName         string     `json:"full_name"`
	BloodGroup       BloodGroup `json:"blood_group"`
	City             string     `json:"city"`
	PhoneNumber      string     `json:"phone_number,omitempty"`
	LastDonationDate string     `json:"last_donation_date,omitempty"`
	IsAvailable      bool       `json:"is_available"`
}

// DonorSearch filters the available-donor listing.
type DonorSearch struct {
	BloodGroup string
	City       string
}

// Query encodes the non-empty filters.
func (s DonorSearch) Query() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(s.BloodGroup); v != "" {
		q.Set("blood_group", v)
	}
	if v := strings.TrimSpace(s.City); v != "" {
		q.Set("city", v)
	}
	return q
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
