package entity

import "github.com/google/uuid"

type ExperienceStatus string

const (
	ExperienceStatusDraft    ExperienceStatus = "draft"
	ExperienceStatusActive   ExperienceStatus = "active"
	ExperienceStatusInactive ExperienceStatus = "inactive"
)

type Experience struct {
	Base
	HostID        uuid.UUID        `db:"host_id"`
	TitleEN       string           `db:"title_en"`
	TitleES       string           `db:"title_es"`
	DescriptionEN string           `db:"description_en"`
	DescriptionES string           `db:"description_es"`
	Location      string           `db:"location"`
	MaxGuests     int              `db:"max_guests"`
	PriceUSD      float64          `db:"price_usd"`
	ImageURL      string           `db:"image_url"`
	Status        ExperienceStatus `db:"status"`
}
