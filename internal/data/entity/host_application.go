package entity

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// HostApplicationPayload is stored as a JSON document
type HostApplicationPayload struct {
	Bio            string   `json:"bio"`
	Languages      []string `json:"languages"`
	ExperienceIdea string   `json:"experience_idea"`
	Location       string   `json:"location"`
	Phone          string   `json:"phone,omitempty"`
	Website        string   `json:"website,omitempty"`
}

type HostApplication struct {
	BaseSimple
	UserID     uuid.UUID              `db:"user_id"`
	Payload    HostApplicationPayload `db:"payload"`
	Status     ApplicationStatus      `db:"status"`
	ReviewNote string                 `db:"review_note"`
	ReviewedBy *uuid.UUID             `db:"reviewed_by"`
	ReviewedAt *time.Time             `db:"reviewed_at"`
}
