package metrics

// StaffMetrics is the dashboard counter set returned by the staff
// metrics endpoints. All counters default to zero so a failed fetch can
// fall back to an empty dashboard instead of a broken one.
type StaffMetrics struct {
	TotalApplications            int `json:"total_applications"`
	SubmittedPendingReview       int `json:"submitted_pending_review"`
	InStaffReview                int `json:"in_staff_review"`
	AwaitingDocuments            int `json:"awaiting_documents"`
	InGSAssessment               int `json:"in_gs_assessment"`
	OffersGenerated              int `json:"offers_generated"`
	Enrolled                     int `json:"enrolled"`
	Rejected                     int `json:"rejected"`
	DocumentsPendingVerification int `json:"documents_pending_verification"`
}

type Config struct {
	StaleTimeSec       int `mapstructure:"stale_time_sec"`
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec"`
}
