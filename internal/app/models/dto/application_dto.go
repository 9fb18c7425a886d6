package dto

// SubmitApplicationRequest submits an admission application for a
// scheduled program. Dates use the 2006-01-02 layout.
type SubmitApplicationRequest struct {
	FullName             string `json:"fullName" binding:"required,max=50"`
	DateOfBirth          string `json:"dateOfBirth" binding:"required"`
	HighestQualification string `json:"highestQualification" binding:"required,max=50"`
	MarksObtained        int    `json:"marksObtained" binding:"min=0,max=100"`
	Goals                string `json:"goals" binding:"required,max=50"`
	Email                string `json:"email" binding:"required,email"`
	ScheduledProgramID   int64  `json:"scheduledProgramId" binding:"required,min=1"`
}

// UpdateApplicationRequest moves an application through review: status
// change and optional interview date.
type UpdateApplicationRequest struct {
	Status          string  `json:"status" binding:"required"`
	DateOfInterview *string `json:"dateOfInterview,omitempty"`
}

// EnrollParticipantRequest enrolls an accepted applicant into the
// scheduled program their application targets. When the roll number is
// omitted the next free one is assigned.
type EnrollParticipantRequest struct {
	RollNo int `json:"rollNo" binding:"omitempty,min=1"`
}
