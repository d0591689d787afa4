package usecase

import (
	"context"
	"errors"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedCatalog(t *testing.T, f *fixture, admin *entity.User) {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.Category.CreateCategory(ctx, admin, &request.CategoryRequest{Name: "Books", Slug: "books"})
	require.NoError(t, err)
	_, err = f.svc.Genre.CreateGenre(ctx, admin, &request.GenreRequest{Name: "Sci-Fi", Slug: "sci-fi"})
	require.NoError(t, err)
	_, err = f.svc.Genre.CreateGenre(ctx, admin, &request.GenreRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)
}

func TestCatalogWritesNeedStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plain := f.user(t, "bob", entity.RoleUser)
	moderator := f.user(t, "mod", entity.RoleModerator)
	req := &request.CategoryRequest{Name: "Films", Slug: "films"}

	_, err := f.svc.Category.CreateCategory(ctx, nil, req)
	assertCode(t, apperr.CodeAuthRequired, err)

	_, err = f.svc.Category.CreateCategory(ctx, plain, req)
	assertCode(t, apperr.CodePermission, err)

	_, err = f.svc.Category.CreateCategory(ctx, moderator, req)
	require.NoError(t, err)

	_, err = f.svc.Category.CreateCategory(ctx, moderator, req)
	assertCode(t, apperr.CodeValidation, err)

	list, err := f.svc.Category.GetCategories(ctx, nil, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)

	assertCode(t, apperr.CodePermission, f.svc.Category.DeleteCategory(ctx, plain, "films"))
	require.NoError(t, f.svc.Category.DeleteCategory(ctx, moderator, "films"))
	assertCode(t, apperr.CodeNotFound, f.svc.Category.DeleteCategory(ctx, moderator, "films"))
}

func TestGenreSearch(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "root", entity.RoleAdmin)
	seedCatalog(t, f, admin)

	search := "sci"
	list, err := f.svc.Genre.GetGenres(context.Background(), &search, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "sci-fi", list.Data[0].Slug)
}

func TestTitleLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "root", entity.RoleAdmin)
	seedCatalog(t, f, admin)

	created, err := f.svc.Title.CreateTitle(ctx, admin, &request.TitleRequest{
		Name:     "Dune",
		Year:     1965,
		Genre:    []string{"sci-fi", "drama"},
		Category: strPtr("books"),
	})
	require.NoError(t, err)
	assert.Nil(t, created.Rating)
	require.NotNil(t, created.Category)
	assert.Equal(t, "books", created.Category.Slug)
	assert.Len(t, created.Genre, 2)

	genre := "drama"
	list, err := f.svc.Title.GetTitles(ctx, &request.TitleListQuery{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Genre:            &genre,
	})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)

	updated, err := f.svc.Title.UpdateTitle(ctx, admin, created.ID, &request.TitleUpdateRequest{
		Year:  intPtr(1966),
		Genre: []string{"sci-fi"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1966, updated.Year)
	require.Len(t, updated.Genre, 1)
	assert.Equal(t, "sci-fi", updated.Genre[0].Slug)
	assert.Equal(t, "Dune", updated.Name)

	require.NoError(t, f.svc.Title.DeleteTitle(ctx, admin, created.ID))
	_, err = f.svc.Title.GetTitleByID(ctx, created.ID)
	assertCode(t, apperr.CodeNotFound, err)
}

func TestCreateTitleRejectsUnknownSlugsAndFutureYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "root", entity.RoleAdmin)
	seedCatalog(t, f, admin)

	_, err := f.svc.Title.CreateTitle(ctx, admin, &request.TitleRequest{Name: "X", Year: 2000, Genre: []string{"horror"}})
	assertCode(t, apperr.CodeValidation, err)

	_, err = f.svc.Title.CreateTitle(ctx, admin, &request.TitleRequest{Name: "X", Year: 2000, Genre: []string{}, Category: strPtr("films")})
	assertCode(t, apperr.CodeValidation, err)

	_, err = f.svc.Title.CreateTitle(ctx, admin, &request.TitleRequest{Name: "X", Year: 9999, Genre: []string{}})
	assertCode(t, apperr.CodeValidation, err)

	_, err = f.svc.Title.CreateTitle(ctx, admin, &request.TitleRequest{Name: "X", Year: 2000})
	assertCode(t, apperr.CodeValidation, err)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "genre")

	created, err := f.svc.Title.CreateTitle(ctx, admin, &request.TitleRequest{Name: "Y", Year: 2000, Genre: []string{}})
	require.NoError(t, err)
	assert.Empty(t, created.Genre)
	require.NoError(t, f.svc.Title.DeleteTitle(ctx, admin, created.ID))

	count, err := f.repo.Title.CountAll(ctx, repository.TitleFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetTitleMalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Title.GetTitleByID(context.Background(), "not-a-uuid")
	assertCode(t, apperr.CodeNotFound, err)
}

// vanishedGenres resolves slugs to genres that no longer exist in the store,
// as if they were deleted between lookup and linking.
type vanishedGenres struct {
	repository.GenreRepository
}

func (r *vanishedGenres) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	genres, err := r.GenreRepository.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	stale := make([]*entity.Genre, len(genres))
	for i, genre := range genres {
		copied := *genre
		copied.ID = uuid.New()
		stale[i] = &copied
	}
	return stale, nil
}

func TestUpdateTitleFailedGenreLinkChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "root", entity.RoleAdmin)
	seedCatalog(t, f, admin)

	created, err := f.svc.Title.CreateTitle(ctx, admin, &request.TitleRequest{
		Name:  "Old",
		Year:  1999,
		Genre: []string{"drama"},
	})
	require.NoError(t, err)

	repo := *f.repo
	repo.Genre = &vanishedGenres{GenreRepository: f.repo.Genre}
	broken := NewService(&repo, f.config, f.gen, f.notifier, zap.NewNop())

	_, err = broken.Title.UpdateTitle(ctx, admin, created.ID, &request.TitleUpdateRequest{
		Name:  strPtr("New"),
		Genre: []string{"sci-fi"},
	})
	assertCode(t, apperr.CodeInternal, err)

	got, err := f.svc.Title.GetTitleByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old", got.Name)
	require.Len(t, got.Genre, 1)
	assert.Equal(t, "drama", got.Genre[0].Slug)
}

func TestUpdateTitleEmptyGenreListClearsLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "root", entity.RoleAdmin)
	seedCatalog(t, f, admin)

	created, err := f.svc.Title.CreateTitle(ctx, admin, &request.TitleRequest{
		Name:  "Dune",
		Year:  1965,
		Genre: []string{"sci-fi", "drama"},
	})
	require.NoError(t, err)

	updated, err := f.svc.Title.UpdateTitle(ctx, admin, created.ID, &request.TitleUpdateRequest{Year: intPtr(1966)})
	require.NoError(t, err)
	assert.Len(t, updated.Genre, 2)

	updated, err = f.svc.Title.UpdateTitle(ctx, admin, created.ID, &request.TitleUpdateRequest{Genre: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Genre)
}

func intPtr(n int) *int { return &n }
