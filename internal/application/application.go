package application

// Application is the backend-owned intake record. The client holds the id
// and whatever partial data the last fetch returned.
type Application struct {
	ID               string `json:"id"`
	AgentProfileID   string `json:"agent_profile_id"`
	CourseOfferingID string `json:"course_offering_id"`
	Status           string `json:"status"`
	CreatedAt        int64  `json:"created_at"`
	UpdatedAt        int64  `json:"updated_at"`
}

// CreateRequest is the payload for creating a new application record.
type CreateRequest struct {
	AgentProfileID   string `json:"agent_profile_id"`
	CourseOfferingID string `json:"course_offering_id"`
}
