package request

type CreateExperienceRequest struct {
	// HostID is honoured only for admins creating on behalf of a host
	HostID        string  `json:"host_id" validate:"omitempty,uuid"`
	TitleEN       string  `json:"title_en" validate:"required,max=200"`
	TitleES       string  `json:"title_es" validate:"required,max=200"`
	DescriptionEN string  `json:"description_en" validate:"max=10000"`
	DescriptionES string  `json:"description_es" validate:"max=10000"`
	Location      string  `json:"location" validate:"required,max=200"`
	MaxGuests     int     `json:"max_guests" validate:"required,gte=1,max=1000"`
	PriceUSD      float64 `json:"price_usd" validate:"gte=0"`
	ImageURL      string  `json:"image_url" validate:"omitempty,url"`
	Status        string  `json:"status" validate:"omitempty,oneof=draft active inactive"`
}

type UpdateExperienceRequest struct {
	TitleEN       *string  `json:"title_en" validate:"omitempty,min=1,max=200"`
	TitleES       *string  `json:"title_es" validate:"omitempty,min=1,max=200"`
	DescriptionEN *string  `json:"description_en" validate:"omitempty,max=10000"`
	DescriptionES *string  `json:"description_es" validate:"omitempty,max=10000"`
	Location      *string  `json:"location" validate:"omitempty,min=1,max=200"`
	MaxGuests     *int     `json:"max_guests" validate:"omitempty,gte=1,max=1000"`
	PriceUSD      *float64 `json:"price_usd" validate:"omitempty,gte=0"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
}

type UpdateExperienceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active inactive"`
}

type ExperienceListRequest struct {
	PaginatedRequest
	Location string `json:"location" validate:"max=200"`
}
