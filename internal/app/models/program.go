package models

import "time"

// ProgramOffered represents a program template in the admission catalog
type ProgramOffered struct {
	ID                       int64  `json:"id" db:"id"`
	Name                     string `json:"name" db:"name"` // Unique catalog name
	Description              string `json:"description" db:"description"`
	ApplicantEligibility     string `json:"applicantEligibility" db:"applicant_eligibility"`
	DurationMonths           int    `json:"durationMonths" db:"duration_months"`
	DegreeCertificateOffered string `json:"degreeCertificateOffered" db:"degree_certificate_offered"`
}

// ProgramScheduled represents a dated, located instance of an offered
// program. It references the offered program by id; the database enforces
// the reference with ON DELETE RESTRICT.
type ProgramScheduled struct {
	ID              int64     `json:"id" db:"id"`
	ProgramID       int64     `json:"programId" db:"program_id"`
	Location        string    `json:"location" db:"location"`
	StartDate       time.Time `json:"startDate" db:"start_date"`
	EndDate         time.Time `json:"endDate" db:"end_date"`
	SessionsPerWeek int       `json:"sessionsPerWeek" db:"sessions_per_week"`

	// ProgramName is joined in on reads for display; not a stored column
	// relationship of its own.
	ProgramName string `json:"programName,omitempty" db:"-"`
}
