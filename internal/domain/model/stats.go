package model

import "time"

// PlatformStats summarizes platform-wide totals for the admin analytics tab.
type PlatformStats struct {
	TotalDonors       int `json:"total_donors"`
	TotalHospitals    int `json:"total_hospitals"`
	TotalRequests     int `json:"total_requests"`
	FulfilledRequests int `json:"fulfilled_requests"`
	PendingApprovals  int `json:"pending_approvals"`
}

// FulfillmentRate is the share of fulfilled requests as a percentage, 0 when there are none.
func (s PlatformStats) FulfillmentRate() float64 {
	if s.TotalRequests <= 0 {
		return 0
	}
	return float64(s.FulfilledRequests) * 100 / float64(s.TotalRequests)
}

// ActivityType categorizes admin feed entries.
type ActivityType string

const (
	ActivityRegistration ActivityType = "registration"
	ActivityRequest      ActivityType = "request"
	ActivityApproval     ActivityType = "approval"
)

// Activity is one entry in the recent-activity feed.
type Activity struct {
	ID          int64        `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	User        string       `json:"user"`
}

// AdminOverview is what the admin dashboard loads on its first tab.
type AdminOverview struct {
	Pending []BloodRequest
	Stats   PlatformStats
}
