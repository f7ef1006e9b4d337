package response

import (
	"time"

	"experience-market/internal/data/entity"
)

type ExperienceResponse struct {
	ID            string    `json:"id"`
	HostID        string    `json:"host_id"`
	TitleEN       string    `json:"title_en"`
	TitleES       string    `json:"title_es"`
	DescriptionEN string    `json:"description_en"`
	DescriptionES string    `json:"description_es"`
	Location      string    `json:"location"`
	MaxGuests     int       `json:"max_guests"`
	PriceUSD      float64   `json:"price_usd"`
	ImageURL      string    `json:"image_url,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ExperienceToResponse(exp *entity.Experience) ExperienceResponse {
	return ExperienceResponse{
		ID:            exp.ID.String(),
		HostID:        exp.HostID.String(),
		TitleEN:       exp.TitleEN,
		TitleES:       exp.TitleES,
		DescriptionEN: exp.DescriptionEN,
		DescriptionES: exp.DescriptionES,
		Location:      exp.Location,
		MaxGuests:     exp.MaxGuests,
		PriceUSD:      exp.PriceUSD,
		ImageURL:      exp.ImageURL,
		Status:        string(exp.Status),
		CreatedAt:     exp.CreatedAt,
		UpdatedAt:     exp.UpdatedAt,
	}
}
