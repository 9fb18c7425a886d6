package dto

// CreateProgramRequest creates an offered program
type CreateProgramRequest struct {
	Name                     string `json:"name" binding:"required,max=50"`
	Description              string `json:"description" binding:"required"`
	ApplicantEligibility     string `json:"applicantEligibility" binding:"required"`
	DurationMonths           int    `json:"durationMonths" binding:"required,min=1"`
	DegreeCertificateOffered string `json:"degreeCertificateOffered" binding:"required"`
}

// UpdateProgramRequest updates an offered program
type UpdateProgramRequest struct {
	Name                     string `json:"name" binding:"required,max=50"`
	Description              string `json:"description" binding:"required"`
	ApplicantEligibility     string `json:"applicantEligibility" binding:"required"`
	DurationMonths           int    `json:"durationMonths" binding:"required,min=1"`
	DegreeCertificateOffered string `json:"degreeCertificateOffered" binding:"required"`
}

// SearchProgramRequest looks up a program for the update flow. Exactly one
// of name or description is used; name wins when both are present.
type SearchProgramRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// CreateScheduleRequest schedules an offered program at a location and
// date range. Dates use the 2006-01-02 layout.
type CreateScheduleRequest struct {
	ProgramID       int64  `json:"programId" binding:"required,min=1"`
	Location        string `json:"location" binding:"required,max=50"`
	StartDate       string `json:"startDate" binding:"required"`
	EndDate         string `json:"endDate" binding:"required"`
	SessionsPerWeek int    `json:"sessionsPerWeek" binding:"required,min=1"`
}

// UpdateScheduleRequest updates a scheduled program
type UpdateScheduleRequest struct {
	ProgramID       int64  `json:"programId" binding:"required,min=1"`
	Location        string `json:"location" binding:"required,max=50"`
	StartDate       string `json:"startDate" binding:"required"`
	EndDate         string `json:"endDate" binding:"required"`
	SessionsPerWeek int    `json:"sessionsPerWeek" binding:"required,min=1"`
}
