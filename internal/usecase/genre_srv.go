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

	"go.uber.org/zap"
)

type GenreService interface {
	GetGenres(ctx context.Context, search *string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error)
	CreateGenre(ctx context.Context, actor *entity.User, req *request.GenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, actor *entity.User, slug string) error
}

type genreService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewGenreService(repo *repository.Repository, log *zap.Logger) GenreService {
	return &genreService{
		repo: repo,
		log:  log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) GetGenres(ctx context.Context, search *string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.GenreResponse], error) {
	genres, err := s.repo.Genre.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperr.Internal("Failed to get genres", err)
	}
	total, err := s.repo.Genre.CountAll(ctx, search)
	if err != nil {
		return nil, apperr.Internal("Failed to count genres", err)
	}

	data := make([]response.GenreResponse, 0, len(genres))
	for _, genre := range genres {
		data = append(data, response.GenreToResponse(genre))
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), req.Limit(), total), nil
}

func (s *genreService) CreateGenre(ctx context.Context, actor *entity.User, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := authorize(permission.StaffOrReadOnly, actor, permission.Create, permission.Resource{}); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Create genre", req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Genre.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, apperr.Internal("Failed to check slug", err)
	}
	if existing != nil {
		return nil, slugTaken("genre")
	}

	genre := &entity.Genre{
		BaseSimple: entity.NewBaseSimple(time.Now()),
		Name:       req.Name,
		Slug:       req.Slug,
	}

	if err := s.repo.Genre.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, slugTaken("genre")
		}
		return nil, apperr.Internal("Failed to create genre", err)
	}

	s.log.Info("Genre created", zap.String("slug", genre.Slug))
	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, actor *entity.User, slug string) error {
	if err := authorize(permission.StaffOrReadOnly, actor, permission.Delete, permission.Resource{}); err != nil {
		return err
	}

	genre, err := s.repo.Genre.FindBySlug(ctx, slug)
	if err != nil {
		return apperr.Internal("Failed to get genre", err)
	}
	if genre == nil {
		return apperr.NotFound("Genre not found")
	}

	if err := s.repo.Genre.Delete(ctx, genre.ID); err != nil {
		return apperr.Internal("Failed to delete genre", err)
	}

	s.log.Info("Genre deleted", zap.String("slug", slug))
	return nil
}
