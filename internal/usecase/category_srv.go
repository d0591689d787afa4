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

type CategoryService interface {
	GetCategories(ctx context.Context, search *string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error)
	CreateCategory(ctx context.Context, actor *entity.User, req *request.CategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, actor *entity.User, slug string) error
}

type categoryService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCategoryService(repo *repository.Repository, log *zap.Logger) CategoryService {
	return &categoryService{
		repo: repo,
		log:  log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) GetCategories(ctx context.Context, search *string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CategoryResponse], error) {
	categories, err := s.repo.Category.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperr.Internal("Failed to get categories", err)
	}
	total, err := s.repo.Category.CountAll(ctx, search)
	if err != nil {
		return nil, apperr.Internal("Failed to count categories", err)
	}

	data := make([]response.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		data = append(data, response.CategoryToResponse(category))
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), req.Limit(), total), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, actor *entity.User, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := authorize(permission.StaffOrReadOnly, actor, permission.Create, permission.Resource{}); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Create category", req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Category.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, apperr.Internal("Failed to check slug", err)
	}
	if existing != nil {
		return nil, slugTaken("category")
	}

	category := &entity.Category{
		BaseSimple: entity.NewBaseSimple(time.Now()),
		Name:       req.Name,
		Slug:       req.Slug,
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, slugTaken("category")
		}
		return nil, apperr.Internal("Failed to create category", err)
	}

	s.log.Info("Category created", zap.String("slug", category.Slug))
	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, actor *entity.User, slug string) error {
	if err := authorize(permission.StaffOrReadOnly, actor, permission.Delete, permission.Resource{}); err != nil {
		return err
	}

	category, err := s.repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return apperr.Internal("Failed to get category", err)
	}
	if category == nil {
		return apperr.NotFound("Category not found")
	}

	if err := s.repo.Category.Delete(ctx, category.ID); err != nil {
		return apperr.Internal("Failed to delete category", err)
	}

	s.log.Info("Category deleted", zap.String("slug", slug))
	return nil
}

func slugTaken(resource string) error {
	return apperr.Validation("Validation failed", map[string]string{
		"slug": "A " + resource + " with this slug already exists",
	})
}
