package request

type CreatePostRequest struct {
	Slug      string `json:"slug" validate:"required,min=3,max=120,slug"`
	TitleEN   string `json:"title_en" validate:"required,max=200"`
	TitleES   string `json:"title_es" validate:"required,max=200"`
	BodyEN    string `json:"body_en" validate:"max=100000"`
	BodyES    string `json:"body_es" validate:"max=100000"`
	ImageURL  string `json:"image_url" validate:"omitempty,url"`
	Published bool   `json:"published"`
}

type UpdatePostRequest struct {
	Slug      *string `json:"slug" validate:"omitempty,min=3,max=120,slug"`
	TitleEN   *string `json:"title_en" validate:"omitempty,min=1,max=200"`
	TitleES   *string `json:"title_es" validate:"omitempty,min=1,max=200"`
	BodyEN    *string `json:"body_en" validate:"omitempty,max=100000"`
	BodyES    *string `json:"body_es" validate:"omitempty,max=100000"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
	Published *bool   `json:"published"`
}
