//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// setupTestRepo starts Postgres, applies migrations and returns the repositories.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("yamdb"),
		postgres.WithUsername("yamdb"),
		postgres.WithPassword("yamdb"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(ctx, connStr, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	log := zap.NewNop()
	require.NoError(t, database.Migrate(ctx, db, log))
	// second run must be a no-op
	require.NoError(t, database.Migrate(ctx, db, log))

	return NewRepository(db, log)
}

func seedUser(t *testing.T, repo *Repository, username string) *entity.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@yamdb.test",
		Role:     entity.RoleUser,
	}
	require.NoError(t, repo.User.Create(context.Background(), user))
	return user
}

func seedTitle(t *testing.T, repo *Repository, name string, year int, categoryID *uuid.UUID) *entity.Title {
	t.Helper()
	now := time.Now().UTC()
	title := &entity.Title{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:       name,
		Year:       year,
		CategoryID: categoryID,
	}
	require.NoError(t, repo.Title.Create(context.Background(), title))
	return title
}

func seedReview(t *testing.T, repo *Repository, title *entity.Title, author *entity.User, score int, at time.Time) *entity.Review {
	t.Helper()
	review := &entity.Review{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: at},
		TitleID:    title.ID,
		AuthorID:   author.ID,
		Score:      score,
		Text:       "text",
	}
	require.NoError(t, repo.Review.Create(context.Background(), review))
	return review
}

func TestPostgresRepositories(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		bob := seedUser(t, repo, "bob")

		dup := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "bob", Email: "x@yamdb.test", Role: entity.RoleUser}
		assert.True(t, errors.Is(repo.User.Create(ctx, dup), ErrDuplicate))

		require.NoError(t, repo.User.UpdateConfirmationCode(ctx, bob.ID, "hash"))
		bob.Role = entity.RoleModerator
		require.NoError(t, repo.User.Update(ctx, bob))

		got, err := repo.User.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		require.NotNil(t, got.ConfirmationCode)
		assert.Equal(t, "hash", *got.ConfirmationCode)
		assert.Equal(t, entity.RoleModerator, got.Role)

		missing, err := repo.User.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)

		name := "bob"
		count, err := repo.User.CountAll(ctx, &name)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("titles rating ordering and category set null", func(t *testing.T) {
		films := &entity.Category{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, Name: "Films", Slug: "films"}
		require.NoError(t, repo.Category.Create(ctx, films))
		drama := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, Name: "Drama", Slug: "drama"}
		require.NoError(t, repo.Genre.Create(ctx, drama))

		alien := seedTitle(t, repo, "Alien", 1979, &films.ID)
		dune := seedTitle(t, repo, "Dune", 2021, nil)
		seedTitle(t, repo, "Casablanca", 1942, nil)

		require.NoError(t, repo.TitleGenre.CreateBatch(ctx, []*entity.TitleGenre{
			{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, TitleID: alien.ID, GenreID: drama.ID},
		}))

		u1 := seedUser(t, repo, "rater1")
		u2 := seedUser(t, repo, "rater2")
		seedReview(t, repo, alien, u1, 6, time.Now())
		seedReview(t, repo, dune, u1, 9, time.Now())
		seedReview(t, repo, dune, u2, 8, time.Now())

		titles, err := repo.Title.FindAll(ctx, TitleFilter{Ordering: "-rating"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, titles, 3)
		assert.Equal(t, []string{"Dune", "Alien", "Casablanca"}, []string{titles[0].Name, titles[1].Name, titles[2].Name})
		require.NotNil(t, titles[0].Rating)
		assert.InDelta(t, 8.5, *titles[0].Rating, 0.001)
		assert.Nil(t, titles[2].Rating)

		genre := "drama"
		titles, err = repo.Title.FindAll(ctx, TitleFilter{GenreSlug: &genre}, 10, 0)
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "Alien", titles[0].Name)

		require.NoError(t, repo.Category.Delete(ctx, films.ID))
		got, err := repo.Title.FindByID(ctx, alien.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
	})

	t.Run("title update rolls back on failed genre link", func(t *testing.T) {
		western := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, Name: "Western", Slug: "western"}
		require.NoError(t, repo.Genre.Create(ctx, western))
		title := seedTitle(t, repo, "Unforgiven", 1992, nil)
		require.NoError(t, repo.TitleGenre.CreateBatch(ctx, []*entity.TitleGenre{
			{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, TitleID: title.ID, GenreID: western.ID},
		}))

		changed := *title
		changed.Name = "Renamed"
		err := repo.Title.Update(ctx, &changed, []*entity.TitleGenre{
			{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, TitleID: title.ID, GenreID: uuid.New()},
		})
		require.Error(t, err)

		got, err := repo.Title.FindByID(ctx, title.ID)
		require.NoError(t, err)
		assert.Equal(t, "Unforgiven", got.Name)
		genres, err := repo.Genre.FindByTitleID(ctx, title.ID)
		require.NoError(t, err)
		require.Len(t, genres, 1)
		assert.Equal(t, "western", genres[0].Slug)

		require.NoError(t, repo.Title.Update(ctx, &changed, []*entity.TitleGenre{}))
		got, err = repo.Title.FindByID(ctx, title.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		genres, err = repo.Genre.FindByTitleID(ctx, title.ID)
		require.NoError(t, err)
		assert.Empty(t, genres)
	})

	t.Run("name search treats wildcards literally", func(t *testing.T) {
		seedTitle(t, repo, "100% Wolf", 2020, nil)
		seedTitle(t, repo, "1000 Wolves", 2021, nil)
		noir := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, Name: "Neo_Noir", Slug: "neo-noir"}
		require.NoError(t, repo.Genre.Create(ctx, noir))
		afternoon := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, Name: "Afternoon", Slug: "afternoon"}
		require.NoError(t, repo.Genre.Create(ctx, afternoon))

		search := "0% w"
		titles, err := repo.Title.FindAll(ctx, TitleFilter{Name: &search}, 10, 0)
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "100% Wolf", titles[0].Name)

		search = "o_n"
		genres, err := repo.Genre.FindAll(ctx, &search, 10, 0)
		require.NoError(t, err)
		require.Len(t, genres, 1)
		assert.Equal(t, "neo-noir", genres[0].Slug)

		count, err := repo.Genre.CountAll(ctx, &search)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("reviews cascade and order", func(t *testing.T) {
		author := seedUser(t, repo, "critic")
		title := seedTitle(t, repo, "Heat", 1995, nil)
		other := seedUser(t, repo, "fan")

		older := seedReview(t, repo, title, other, 5, time.Now().Add(-time.Hour))
		newer := seedReview(t, repo, title, author, 7, time.Now())

		dup := &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, TitleID: title.ID, AuthorID: author.ID, Score: 1, Text: "again"}
		assert.True(t, errors.Is(repo.Review.Create(ctx, dup), ErrDuplicate))

		reviews, err := repo.Review.FindByTitleID(ctx, title.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, newer.ID, reviews[0].ID)
		assert.Equal(t, older.ID, reviews[1].ID)

		comment := &entity.Comment{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, ReviewID: newer.ID, AuthorID: other.ID, Text: "nice"}
		require.NoError(t, repo.Comment.Create(ctx, comment))

		require.NoError(t, repo.Title.Delete(ctx, title.ID))

		gone, err := repo.Review.FindByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
		goneComment, err := repo.Comment.FindByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Nil(t, goneComment)
	})
}
