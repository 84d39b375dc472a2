package models

// OpportunityDetail decorates a posting with derived counts.
type OpportunityDetail struct {
	Opportunity
	SlotsLeft        int `json:"slots_left"`
	ApplicationCount int `json:"application_count"`
}

// ApplicationDetail decorates an application with the applicant context a
// reviewer needs.
type ApplicationDetail struct {
	Application
	StudentName  string `json:"student_name"`
	StudentYear  int    `json:"student_year"`
	StudentMajor string `json:"student_major"`
}
