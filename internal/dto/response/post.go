package response

import (
	"time"

	"experience-market/internal/data/entity"
)

type PostResponse struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	AuthorID  string    `json:"author_id"`
	TitleEN   string    `json:"title_en"`
	TitleES   string    `json:"title_es"`
	BodyEN    string    `json:"body_en"`
	BodyES    string    `json:"body_es"`
	ImageURL  string    `json:"image_url,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func PostToResponse(post *entity.Post) PostResponse {
	return PostResponse{
		ID:        post.ID.String(),
		Slug:      post.Slug,
		AuthorID:  post.AuthorID.String(),
		TitleEN:   post.TitleEN,
		TitleES:   post.TitleES,
		BodyEN:    post.BodyEN,
		BodyES:    post.BodyES,
		ImageURL:  post.ImageURL,
		Published: post.Published,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
