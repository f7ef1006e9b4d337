package usecase

import (
	"context"
	"errors"
	"testing"

	"experience-market/internal/data/entity"
	"experience-market/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosts_PublishFlow(t *testing.T) {
	f := newFixture()
	admin := f.addUser(entity.RoleAdmin)

	post, err := f.svc.Post.CreatePost(context.Background(), admin, &request.CreatePostRequest{
		Slug:    "dia-de-muertos",
		TitleEN: "Day of the Dead",
		TitleES: "Dia de Muertos",
		BodyEN:  "Altars and marigolds.",
		BodyES:  "Altares y cempasuchil.",
	})
	require.NoError(t, err)
	assert.False(t, post.Published)

	_, err = f.svc.Post.GetBySlug(context.Background(), "dia-de-muertos")
	assert.True(t, errors.Is(err, ErrNotFound), "drafts are hidden")

	published := true
	_, err = f.svc.Post.UpdatePost(context.Background(), post.ID, &request.UpdatePostRequest{Published: &published})
	require.NoError(t, err)

	got, err := f.svc.Post.GetBySlug(context.Background(), "dia-de-muertos")
	require.NoError(t, err)
	assert.Equal(t, "Dia de Muertos", got.TitleES)

	page := defaultPage()
	list, err := f.svc.Post.ListPublished(context.Background(), &page)
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)

	require.NoError(t, f.svc.Post.DeletePost(context.Background(), post.ID))
	assert.Empty(t, f.store.posts)
}

func TestPosts_SlugRules(t *testing.T) {
	f := newFixture()
	admin := f.addUser(entity.RoleAdmin)
	req := &request.CreatePostRequest{Slug: "guelaguetza", TitleEN: "Guelaguetza", TitleES: "Guelaguetza"}

	_, err := f.svc.Post.CreatePost(context.Background(), admin, req)
	require.NoError(t, err)

	_, err = f.svc.Post.CreatePost(context.Background(), admin, req)
	assert.True(t, errors.Is(err, ErrConflict))

	req.Slug = "Bad Slug"
	_, err = f.svc.Post.CreatePost(context.Background(), admin, req)
	assert.True(t, errors.Is(err, ErrValidation))

	host := f.addUser(entity.RoleHost)
	req.Slug = "by-host"
	_, err = f.svc.Post.CreatePost(context.Background(), host, req)
	assert.True(t, errors.Is(err, ErrForbidden))
}
