package entity

import "github.com/google/uuid"

type Post struct {
	Base
	Slug      string    `db:"slug"`
	AuthorID  uuid.UUID `db:"author_id"`
	TitleEN   string    `db:"title_en"`
	TitleES   string    `db:"title_es"`
	BodyEN    string    `db:"body_en"`
	BodyES    string    `db:"body_es"`
	ImageURL  string    `db:"image_url"`
	Published bool      `db:"published"`
}
