package models

import "time"

// Application statuses
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Application is an applicant's submitted admission application for a
// scheduled program.
type Application struct {
	ID                   int64      `json:"id" db:"id"`
	FullName             string     `json:"fullName" db:"full_name"`
	DateOfBirth          time.Time  `json:"dateOfBirth" db:"date_of_birth"`
	HighestQualification string     `json:"highestQualification" db:"highest_qualification"`
	MarksObtained        int        `json:"marksObtained" db:"marks_obtained"`
	Goals                string     `json:"goals" db:"goals"`
	Email                string     `json:"email" db:"email"`
	ScheduledProgramID   int64      `json:"scheduledProgramId" db:"scheduled_program_id"`
	Status               string     `json:"status" db:"status"`
	DateOfInterview      *time.Time `json:"dateOfInterview,omitempty" db:"date_of_interview"`
}

// Participant links an accepted applicant to the scheduled program they
// enrolled in.
type Participant struct {
	ID                 int64  `json:"id" db:"id"`
	RollNo             int    `json:"rollNo" db:"roll_no"`
	Email              string `json:"email" db:"email"`
	ApplicationID      int64  `json:"applicationId" db:"application_id"`
	ScheduledProgramID int64  `json:"scheduledProgramId" db:"scheduled_program_id"`
}
