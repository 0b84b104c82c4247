package dashboard

// OverviewResponse is the combined response for the admin overview endpoint
type OverviewResponse struct {
	Staff          StaffSummaryResponse   `json:"staff"`
	Projects       ProjectSummaryResponse `json:"projects"`
	PendingSignups []PendingSignupItem    `json:"pending_signups"`
	Orphans        OrphanSummaryResponse  `json:"orphaned_identities"`
}

// StaffSummaryResponse counts profiles by role and approval
type StaffSummaryResponse struct {
	Total     int64  `json:"total"`
	Admins    int64  `json:"admins"`
	Approved  int64  `json:"approved"`  // approved employees
	Pending   int64  `json:"pending"`   // employees awaiting approval
	UpdatedAt string `json:"updated_at"`
}

// ProjectSummaryResponse counts clients and projects by status
type ProjectSummaryResponse struct {
	Clients     int64 `json:"clients"`
	Active      int64 `json:"active"`
	OnHold      int64 `json:"on_hold"`
	Completed   int64 `json:"completed"`
	Assignments int64 `json:"assignments"`
}

// PendingSignupItem is a single row of the approval queue preview
type PendingSignupItem struct {
	No        int     `json:"no"`
	UserID    string  `json:"user_id"`
	FullName  string  `json:"full_name"`
	Email     *string `json:"email,omitempty"`
	CreatedAt string  `json:"created_at"` // RFC3339
}

// OrphanSummaryResponse counts identities that never got a profile
type OrphanSummaryResponse struct {
	Count int64 `json:"count"`
}
