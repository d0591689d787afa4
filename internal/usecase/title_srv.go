package usecase

import (
	"context"
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

type TitleService interface {
	GetTitles(ctx context.Context, query *request.TitleListQuery) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitleByID(ctx context.Context, titleID string) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, actor *entity.User, req *request.TitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, actor *entity.User, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, actor *entity.User, titleID string) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) GetTitles(ctx context.Context, query *request.TitleListQuery) (*response.PaginatedResponse[response.TitleResponse], error) {
	filter := repository.TitleFilter{
		GenreSlug:    query.Genre,
		CategorySlug: query.Category,
		Name:         query.Name,
		Year:         query.Year,
		Ordering:     query.Ordering,
	}
	page := query.PaginatedRequest

	titles, err := s.repo.Title.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal("Failed to get titles", err)
	}
	total, err := s.repo.Title.CountAll(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("Failed to count titles", err)
	}

	data := make([]response.TitleResponse, 0, len(titles))
	for _, title := range titles {
		resp, err := s.toResponse(ctx, title)
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}

	return response.NewPaginatedResponse(data, page.CurrentPage(), page.Limit(), total), nil
}

func (s *titleService) findTitle(ctx context.Context, titleID string) (*entity.Title, error) {
	return findTitle(ctx, s.repo, titleID)
}

func (s *titleService) GetTitleByID(ctx context.Context, titleID string) (*response.TitleResponse, error) {
	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, title)
}

func (s *titleService) CreateTitle(ctx context.Context, actor *entity.User, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := authorize(permission.StaffOrReadOnly, actor, permission.Create, permission.Resource{}); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Create title", req); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &entity.Title{
		Base:        entity.NewBase(now),
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
	}

	if err := s.repo.Title.Create(ctx, title); err != nil {
		return nil, apperr.Internal("Failed to create title", err)
	}

	if err := s.linkGenres(ctx, title.ID, genres); err != nil {
		// Rollback: a title without its requested genres is not kept
		if delErr := s.repo.Title.Delete(ctx, title.ID); delErr != nil {
			s.log.Error("Failed to roll back title", zap.Error(delErr), zap.String("title_id", title.ID.String()))
		}
		return nil, err
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
		zap.Int("genre_count", len(genres)),
	)

	return s.toResponse(ctx, title)
}

func (s *titleService) UpdateTitle(ctx context.Context, actor *entity.User, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	if err := authorize(permission.StaffOrReadOnly, actor, permission.Update, permission.Resource{}); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Update title", req); err != nil {
		return nil, err
	}

	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}

	// nil keeps the current genres
	var links []*entity.TitleGenre
	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		links = genreLinks(title.ID, genres)
	}

	title.Touch(time.Now())
	if err := s.repo.Title.Update(ctx, title, links); err != nil {
		return nil, apperr.Internal("Failed to update title", err)
	}

	s.log.Info("Title updated", zap.String("title_id", title.ID.String()))
	return s.toResponse(ctx, title)
}

func (s *titleService) DeleteTitle(ctx context.Context, actor *entity.User, titleID string) error {
	if err := authorize(permission.StaffOrReadOnly, actor, permission.Delete, permission.Resource{}); err != nil {
		return err
	}

	title, err := s.findTitle(ctx, titleID)
	if err != nil {
		return err
	}

	if err := s.repo.Title.Delete(ctx, title.ID); err != nil {
		return apperr.Internal("Failed to delete title", err)
	}

	s.log.Info("Title deleted", zap.String("title_id", title.ID.String()))
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug *string) (*uuid.UUID, error) {
	if slug == nil {
		return nil, nil
	}

	category, err := s.repo.Category.FindBySlug(ctx, *slug)
	if err != nil {
		return nil, apperr.Internal("Failed to check category", err)
	}
	if category == nil {
		return nil, apperr.Validation("Validation failed", map[string]string{
			"category": "Unknown category: " + *slug,
		})
	}
	return &category.ID, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, apperr.Internal("Failed to check genres", err)
	}

	found := make(map[string]bool, len(genres))
	for _, genre := range genres {
		found[genre.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, apperr.Validation("Validation failed", map[string]string{
				"genre": "Unknown genre: " + slug,
			})
		}
	}
	return genres, nil
}

func (s *titleService) linkGenres(ctx context.Context, titleID uuid.UUID, genres []*entity.Genre) error {
	if len(genres) == 0 {
		return nil
	}

	if err := s.repo.TitleGenre.CreateBatch(ctx, genreLinks(titleID, genres)); err != nil {
		s.log.Error("Failed to link genres",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return apperr.Internal("Failed to link genres", err)
	}
	return nil
}

// genreLinks never returns nil, so an empty genre list still clears links.
func genreLinks(titleID uuid.UUID, genres []*entity.Genre) []*entity.TitleGenre {
	now := time.Now()
	links := make([]*entity.TitleGenre, len(genres))
	for i, genre := range genres {
		links[i] = &entity.TitleGenre{
			BaseSimple: entity.NewBaseSimple(now),
			TitleID:    titleID,
			GenreID:    genre.ID,
		}
	}
	return links
}

// toResponse loads the category and genres embedded in the read shape.
func (s *titleService) toResponse(ctx context.Context, title *entity.Title) (*response.TitleResponse, error) {
	var category *entity.Category
	if title.CategoryID != nil {
		var err error
		category, err = s.repo.Category.FindByID(ctx, *title.CategoryID)
		if err != nil {
			return nil, apperr.Internal("Failed to get category", err)
		}
	}

	genres, err := s.repo.Genre.FindByTitleID(ctx, title.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to get genres", err)
	}

	resp := response.TitleToResponse(title, category, genres)
	return &resp, nil
}
