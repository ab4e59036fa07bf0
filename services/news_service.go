package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/repositories"
	"github.com/esportsfed/platform/utils"
)

type NewsService interface {
	CreatePost(ctx context.Context, input CreateNewsInput) (*models.NewsPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.NewsPost, error)
	ListPosts(ctx context.Context, limit, offset int, publishedOnly bool) ([]models.NewsPost, error)
	UpdatePost(ctx context.Context, id int, input UpdateNewsInput) (*models.NewsPost, error)
	PublishPost(ctx context.Context, id int) (*models.NewsPost, error)
	DeletePost(ctx context.Context, id int) error
}

type CreateNewsInput struct {
	Title    string
	Body     string
	AuthorID int
	Publish  bool
}

type UpdateNewsInput struct {
	Title *string
	Body  *string
}

type newsService struct {
	newsRepo repositories.NewsRepository
}

func NewNewsService(newsRepo repositories.NewsRepository) NewsService {
	return &newsService{newsRepo: newsRepo}
}

func (s *newsService) CreatePost(ctx context.Context, input CreateNewsInput) (*models.NewsPost, error) {
	if input.Title == "" || input.Body == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrValidationFailed)
	}

	post := &models.NewsPost{
		Title:    input.Title,
		Slug:     utils.Slugify(input.Title),
		Body:     input.Body,
		AuthorID: input.AuthorID,
	}
	if input.Publish {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	if err := s.newsRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrNewsSlugConflict) {
			return nil, ErrNewsSlugConflict
		}
		return nil, err
	}
	return post, nil
}

func (s *newsService) GetPostBySlug(ctx context.Context, slug string) (*models.NewsPost, error) {
	post, err := s.newsRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *newsService) ListPosts(ctx context.Context, limit, offset int, publishedOnly bool) ([]models.NewsPost, error) {
	return s.newsRepo.List(ctx, limit, offset, publishedOnly)
}

func (s *newsService) UpdatePost(ctx context.Context, id int, input UpdateNewsInput) (*models.NewsPost, error) {
	post, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	if input.Title != nil && *input.Title != "" {
		post.Title = *input.Title
	}
	if input.Body != nil && *input.Body != "" {
		post.Body = *input.Body
	}
	if err := s.newsRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *newsService) PublishPost(ctx context.Context, id int) (*models.NewsPost, error) {
	post, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	if post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
		if err := s.newsRepo.Update(ctx, post); err != nil {
			return nil, err
		}
	}
	return post, nil
}

func (s *newsService) DeletePost(ctx context.Context, id int) error {
	if err := s.newsRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return ErrNewsNotFound
		}
		return err
	}
	return nil
}
