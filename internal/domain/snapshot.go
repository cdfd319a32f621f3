package domain

import "context"

// Read-only snapshots consumed from the job, candidate and interview
// collaborators. The scoring engine and the notification worker only read
// these; ownership and CRUD for the underlying entities live elsewhere.

// JobSummary carries the job fields the pipeline core needs
type JobSummary struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PositionID int64  `json:"position_id"`
}

// JobSkillRequirements splits a job's skill set into required and preferred
type JobSkillRequirements struct {
	Required  []int64 `json:"required"`
	Preferred []int64 `json:"preferred"`
}

// CandidateSkill is one skill the candidate claims, with optional tenure
type CandidateSkill struct {
	SkillID         int64    `json:"skill_id"`
	YearsExperience *float64 `json:"years_experience,omitempty"`
}

// CandidateContact is the minimal identity needed for notification fan-out
type CandidateContact struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// JobSnapshotRepository reads job data owned by the job/position service
type JobSnapshotRepository interface {
	GetSummary(ctx context.Context, jobID int64) (*JobSummary, error)
	GetSkillRequirements(ctx context.Context, jobID int64) (*JobSkillRequirements, error)
}

// CandidateSnapshotRepository reads candidate data owned by the candidate service
type CandidateSnapshotRepository interface {
	GetSkills(ctx context.Context, candidateID string) ([]CandidateSkill, error)
	CountQualifications(ctx context.Context, candidateID string) (int, error)
	GetContact(ctx context.Context, candidateID string) (*CandidateContact, error)
}

// InterviewSnapshotRepository reads feedback ratings linked to an application's interviews
type InterviewSnapshotRepository interface {
	// GetFeedbackRatings returns every feedback rating (1-5, zeros included)
	// across all interviews tied to the application.
	GetFeedbackRatings(ctx context.Context, applicationID int64) ([]int, error)
}
