package request

type CreateHostApplicationRequest struct {
	Bio            string   `json:"bio" validate:"required,min=20,max=5000"`
	Languages      []string `json:"languages" validate:"required,min=1,max=10,dive,required,max=50"`
	ExperienceIdea string   `json:"experience_idea" validate:"required,min=10,max=5000"`
	Location       string   `json:"location" validate:"required,max=200"`
	Phone          string   `json:"phone" validate:"omitempty,max=40"`
	Website        string   `json:"website" validate:"omitempty,url"`
}

type ReviewHostApplicationRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

type HostApplicationListRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}
