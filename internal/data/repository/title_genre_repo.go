package repository

import (
	"context"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// TitleGenreRepository manages the title/genre bridge table.
type TitleGenreRepository interface {
	CreateBatch(ctx context.Context, links []*entity.TitleGenre) error
}

type titleGenreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleGenreRepository(db database.PgxIface, log *zap.Logger) TitleGenreRepository {
	return &titleGenreRepository{
		db:  db,
		log: log.With(zap.String("repository", "title_genre")),
	}
}

func (r *titleGenreRepository) CreateBatch(ctx context.Context, links []*entity.TitleGenre) error {
	if err := insertTitleGenres(ctx, r.db, links); err != nil {
		r.log.Error("Failed to create title genres",
			zap.Error(err),
			zap.Int("count", len(links)),
		)
		return err
	}

	return nil
}

// execer is satisfied by both the pool and a pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertTitleGenres(ctx context.Context, db execer, links []*entity.TitleGenre) error {
	if len(links) == 0 {
		return nil
	}

	query := `INSERT INTO title_genres (id, title_id, genre_id, created_at) VALUES `
	args := make([]any, 0, len(links)*4)

	for i, link := range links {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, link.ID, link.TitleID, link.GenreID, link.CreatedAt)
	}
	query += ` ON CONFLICT (title_id, genre_id) DO NOTHING`

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create title genres: %w", err)
	}
	return nil
}
