package services

import (
	"context"
	"time"

	"stayfinder-backend/models"
	"stayfinder-backend/pkg/apperrors"
	"stayfinder-backend/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type PostService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := validatePost(post); err != nil {
		return nil, err
	}
	post.CreatedAt = time.Now()

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create post", err)
	}
	return created, nil
}

func (s *PostService) Get(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.ErrPostNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load post", err)
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list posts", err)
	}
	return posts, nil
}

func (s *PostService) ListByUser(ctx context.Context, userID bson.ObjectID) ([]models.Post, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list user posts", err)
	}
	return posts, nil
}

// Update replaces the mutable fields of a post. Only the owner may update.
func (s *PostService) Update(ctx context.Context, id, userID bson.ObjectID, updated *models.Post) (*models.Post, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.PostedBy != userID {
		return nil, apperrors.ErrNotPostOwner
	}
	if err := validatePost(updated); err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.PostedBy = existing.PostedBy
	updated.CreatedAt = existing.CreatedAt
	if err := s.posts.Update(ctx, updated); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to update post", err)
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, id, userID bson.ObjectID) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.PostedBy != userID {
		return apperrors.ErrNotPostOwner
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to delete post", err)
	}
	return nil
}

func validatePost(post *models.Post) error {
	if post.Title == "" {
		return apperrors.InvalidArg("title is required")
	}
	if len(post.Title) > 120 {
		return apperrors.InvalidArg("title too long (maximum 120 characters)")
	}
	if post.Price <= 0 {
		return apperrors.InvalidArg("price must be positive")
	}
	if post.Location == "" {
		return apperrors.InvalidArg("location is required")
	}
	switch post.Type {
	case "apartment", "room", "shared":
	default:
		return apperrors.InvalidArg("type must be one of apartment, room, shared")
	}
	return nil
}
