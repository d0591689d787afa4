package usecase

import (
	"context"
	"errors"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/internal/permission"
	"yamdb/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	GetReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, actor *entity.User, titleID string, req *request.ReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, actor *entity.User, titleID, reviewID string, req *request.ReviewUpdateRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor *entity.User, titleID, reviewID string) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) GetReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	title, err := findTitle(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, title.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperr.Internal("Failed to get reviews", err)
	}
	total, err := s.repo.Review.CountByTitleID(ctx, title.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to count reviews", err)
	}

	authors := newAuthorCache(s.repo.User)
	data := make([]response.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		author, err := authors.username(ctx, review.AuthorID)
		if err != nil {
			return nil, err
		}
		data = append(data, response.ReviewToResponse(review, author))
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), req.Limit(), total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, review)
}

func (s *reviewService) CreateReview(ctx context.Context, actor *entity.User, titleID string, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	if err := authorize(permission.AdminModeratorAuthorOrReadOnly, actor, permission.Create, permission.Resource{}); err != nil {
		return nil, err
	}

	title, err := findTitle(ctx, s.repo, titleID)
	if err != nil {
		return nil, err
	}
	if err := validate(s.log, "Create review", req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, actor.ID, title.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to check existing review", err)
	}
	if existing != nil {
		return nil, alreadyReviewed()
	}

	review := &entity.Review{
		BaseSimple: entity.NewBaseSimple(time.Now()),
		TitleID:    title.ID,
		AuthorID:   actor.ID,
		Score:      req.Score,
		Text:       req.Text,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, alreadyReviewed()
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
			zap.String("author_id", actor.ID.String()),
		)
		return nil, apperr.Internal("Failed to create review", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", title.ID.String()),
		zap.Int("score", review.Score),
	)

	resp := response.ReviewToResponse(review, actor.Username)
	return &resp, nil
}

func alreadyReviewed() error {
	return apperr.Validation("Validation failed", map[string]string{
		"title": "You have already reviewed this title",
	})
}

func (s *reviewService) UpdateReview(ctx context.Context, actor *entity.User, titleID, reviewID string, req *request.ReviewUpdateRequest) (*response.ReviewResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authorize(permission.AdminModeratorAuthorOrReadOnly, actor, permission.Update, permission.Owned(review.AuthorID)); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Update review", req); err != nil {
		return nil, err
	}

	if req.Score != nil {
		review.Score = *req.Score
	}
	if req.Text != nil {
		review.Text = *req.Text
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, apperr.Internal("Failed to update review", err)
	}

	s.log.Info("Review updated",
		zap.String("review_id", review.ID.String()),
		zap.String("by", actor.Username),
	)
	return s.toResponse(ctx, review)
}

func (s *reviewService) DeleteReview(ctx context.Context, actor *entity.User, titleID, reviewID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authorize(permission.AdminModeratorAuthorOrReadOnly, actor, permission.Delete, permission.Owned(review.AuthorID)); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		return apperr.Internal("Failed to delete review", err)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", review.ID.String()),
		zap.String("by", actor.Username),
	)
	return nil
}

func (s *reviewService) toResponse(ctx context.Context, review *entity.Review) (*response.ReviewResponse, error) {
	author, err := newAuthorCache(s.repo.User).username(ctx, review.AuthorID)
	if err != nil {
		return nil, err
	}
	resp := response.ReviewToResponse(review, author)
	return &resp, nil
}

// findTitle resolves the parent title of a nested route.
func findTitle(ctx context.Context, repo *repository.Repository, titleID string) (*entity.Title, error) {
	id, err := parseID(titleID, "Title")
	if err != nil {
		return nil, err
	}

	title, err := repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to get title", err)
	}
	if title == nil {
		return nil, apperr.NotFound("Title not found")
	}
	return title, nil
}

// findReview resolves a review that must belong to the given title.
func findReview(ctx context.Context, repo *repository.Repository, titleID, reviewID string) (*entity.Review, error) {
	title, err := findTitle(ctx, repo, titleID)
	if err != nil {
		return nil, err
	}

	id, err := parseID(reviewID, "Review")
	if err != nil {
		return nil, err
	}

	review, err := repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to get review", err)
	}
	if review == nil || review.TitleID != title.ID {
		return nil, apperr.NotFound("Review not found")
	}
	return review, nil
}

// authorCache resolves author ids to usernames once per request.
type authorCache struct {
	users repository.UserRepository
	names map[uuid.UUID]string
}

func newAuthorCache(users repository.UserRepository) *authorCache {
	return &authorCache{users: users, names: make(map[uuid.UUID]string)}
}

func (c *authorCache) username(ctx context.Context, id uuid.UUID) (string, error) {
	if name, ok := c.names[id]; ok {
		return name, nil
	}

	user, err := c.users.FindByID(ctx, id)
	if err != nil {
		return "", apperr.Internal("Failed to get author", err)
	}

	name := ""
	if user != nil {
		name = user.Username
	}
	c.names[id] = name
	return name, nil
}
