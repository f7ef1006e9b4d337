package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"experience-market/internal/data/entity"
	"experience-market/internal/data/repository"
	"experience-market/internal/dto/request"
	"experience-market/internal/dto/response"
	"experience-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PostService interface {
	// Public
	ListPublished(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error)
	GetBySlug(ctx context.Context, slug string) (*response.PostResponse, error)

	// Admin
	ListAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error)
	CreatePost(ctx context.Context, actor Actor, req *request.CreatePostRequest) (*response.PostResponse, error)
	UpdatePost(ctx context.Context, postID string, req *request.UpdatePostRequest) (*response.PostResponse, error)
	DeletePost(ctx context.Context, postID string) error
}

type postService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewPostService(repo *repository.Repository, log *zap.Logger) PostService {
	return &postService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "post")),
	}
}

func (s *postService) list(ctx context.Context, publishedOnly bool, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error) {
	posts, err := s.repo.Post.FindAll(ctx, publishedOnly, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	total, err := s.repo.Post.Count(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	items := make([]response.PostResponse, len(posts))
	for i, p := range posts {
		items[i] = response.PostToResponse(p)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *postService) ListPublished(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error) {
	return s.list(ctx, true, req)
}

func (s *postService) ListAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PostResponse], error) {
	return s.list(ctx, false, req)
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*response.PostResponse, error) {
	post, err := s.repo.Post.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil || !post.Published {
		return nil, notFound("post %s not found", slug)
	}

	resp := response.PostToResponse(post)
	return &resp, nil
}

func (s *postService) CreatePost(ctx context.Context, actor Actor, req *request.CreatePostRequest) (*response.PostResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Post.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if existing != nil {
		return nil, conflict("slug %s is already in use", req.Slug)
	}

	now := s.now()
	post := &entity.Post{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Slug:      req.Slug,
		AuthorID:  actor.UserID,
		TitleEN:   strings.TrimSpace(req.TitleEN),
		TitleES:   strings.TrimSpace(req.TitleES),
		BodyEN:    req.BodyEN,
		BodyES:    req.BodyES,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	}

	if err := s.repo.Post.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info("Post created", zap.String("post_id", post.ID.String()), zap.String("slug", post.Slug))

	resp := response.PostToResponse(post)
	return &resp, nil
}

func (s *postService) UpdatePost(ctx context.Context, postID string, req *request.UpdatePostRequest) (*response.PostResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(postID)
	if err != nil {
		return nil, validationError("invalid post ID format %s", postID)
	}

	post, err := s.repo.Post.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if post == nil {
		return nil, notFound("post %s not found", postID)
	}

	if req.Slug != nil && *req.Slug != post.Slug {
		other, err := s.repo.Post.FindBySlug(ctx, *req.Slug)
		if err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if other != nil {
			return nil, conflict("slug %s is already in use", *req.Slug)
		}
		post.Slug = *req.Slug
	}
	if req.TitleEN != nil {
		post.TitleEN = strings.TrimSpace(*req.TitleEN)
	}
	if req.TitleES != nil {
		post.TitleES = strings.TrimSpace(*req.TitleES)
	}
	if req.BodyEN != nil {
		post.BodyEN = *req.BodyEN
	}
	if req.BodyES != nil {
		post.BodyES = *req.BodyES
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if post.TitleEN == "" || post.TitleES == "" {
		return nil, validationError("titles in both languages are required")
	}

	if err := s.repo.Post.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	post.UpdatedAt = s.now()

	s.log.Info("Post updated", zap.String("post_id", postID))

	resp := response.PostToResponse(post)
	return &resp, nil
}

func (s *postService) DeletePost(ctx context.Context, postID string) error {
	id, err := uuid.Parse(postID)
	if err != nil {
		return validationError("invalid post ID format %s", postID)
	}

	post, err := s.repo.Post.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find post: %w", err)
	}
	if post == nil {
		return notFound("post %s not found", postID)
	}

	if err := s.repo.Post.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.log.Info("Post deleted", zap.String("post_id", postID), zap.String("slug", post.Slug))
	return nil
}
