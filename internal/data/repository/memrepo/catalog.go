package memrepo

import (
	"context"
	"fmt"
	"sort"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.data.Categories {
		if existing.Slug == category.Slug {
			return fmt.Errorf("create category %s: %w", category.Slug, repository.ErrDuplicate)
		}
	}
	r.s.data.Categories[category.ID] = *category
	r.s.track(category.ID)
	return nil
}

func (r *categoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if category, ok := r.s.data.Categories[id]; ok {
		return &category, nil
	}
	return nil, nil
}

func (r *categoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, category := range r.s.data.Categories {
		if category.Slug == slug {
			found := category
			return &found, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) filtered(search *string) []*entity.Category {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var categories []*entity.Category
	for _, category := range r.s.data.Categories {
		if containsFold(category.Name, search) {
			c := category
			categories = append(categories, &c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories
}

func (r *categoryRepo) FindAll(_ context.Context, search *string, limit, offset int) ([]*entity.Category, error) {
	return window(r.filtered(search), limit, offset), nil
}

func (r *categoryRepo) CountAll(_ context.Context, search *string) (int64, error) {
	return int64(len(r.filtered(search))), nil
}

// Delete detaches titles from the category instead of removing them.
func (r *categoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Categories[id]; !ok {
		return fmt.Errorf("category %s not found", id.String())
	}
	delete(r.s.data.Categories, id)

	for titleID, title := range r.s.data.Titles {
		if title.CategoryID != nil && *title.CategoryID == id {
			title.CategoryID = nil
			r.s.data.Titles[titleID] = title
		}
	}
	return nil
}

type genreRepo struct{ s *Store }

func (r *genreRepo) Create(_ context.Context, genre *entity.Genre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.data.Genres {
		if existing.Slug == genre.Slug {
			return fmt.Errorf("create genre %s: %w", genre.Slug, repository.ErrDuplicate)
		}
	}
	r.s.data.Genres[genre.ID] = *genre
	r.s.track(genre.ID)
	return nil
}

func (r *genreRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if genre, ok := r.s.data.Genres[id]; ok {
		return &genre, nil
	}
	return nil, nil
}

func (r *genreRepo) FindBySlug(_ context.Context, slug string) (*entity.Genre, error) {
	genres, _ := r.FindBySlugs(context.Background(), []string{slug})
	if len(genres) == 0 {
		return nil, nil
	}
	return genres[0], nil
}

func (r *genreRepo) collect(match func(entity.Genre) bool) []*entity.Genre {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.genresWhere(match)
}

func (r *genreRepo) FindBySlugs(_ context.Context, slugs []string) ([]*entity.Genre, error) {
	wanted := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		wanted[slug] = struct{}{}
	}
	return r.collect(func(g entity.Genre) bool {
		_, ok := wanted[g.Slug]
		return ok
	}), nil
}

func (r *genreRepo) FindByTitleID(_ context.Context, titleID uuid.UUID) ([]*entity.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	linked := make(map[uuid.UUID]struct{})
	for _, link := range r.s.data.TitleGenres {
		if link.TitleID == titleID {
			linked[link.GenreID] = struct{}{}
		}
	}
	return r.s.genresWhere(func(g entity.Genre) bool {
		_, ok := linked[g.ID]
		return ok
	}), nil
}

func (r *genreRepo) FindAll(_ context.Context, search *string, limit, offset int) ([]*entity.Genre, error) {
	genres := r.collect(func(g entity.Genre) bool { return containsFold(g.Name, search) })
	return window(genres, limit, offset), nil
}

func (r *genreRepo) CountAll(_ context.Context, search *string) (int64, error) {
	genres := r.collect(func(g entity.Genre) bool { return containsFold(g.Name, search) })
	return int64(len(genres)), nil
}

func (r *genreRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Genres[id]; !ok {
		return fmt.Errorf("genre %s not found", id.String())
	}
	delete(r.s.data.Genres, id)

	for linkID, link := range r.s.data.TitleGenres {
		if link.GenreID == id {
			delete(r.s.data.TitleGenres, linkID)
		}
	}
	return nil
}

// genresWhere must be called with the lock held. Results are sorted by name.
func (s *Store) genresWhere(match func(entity.Genre) bool) []*entity.Genre {
	var genres []*entity.Genre
	for _, genre := range s.data.Genres {
		if match(genre) {
			g := genre
			genres = append(genres, &g)
		}
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres
}

type titleGenreRepo struct{ s *Store }

func (r *titleGenreRepo) CreateBatch(_ context.Context, links []*entity.TitleGenre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, link := range links {
		if _, ok := r.s.data.Titles[link.TitleID]; !ok {
			return fmt.Errorf("title %s not found", link.TitleID.String())
		}
		if _, ok := r.s.data.Genres[link.GenreID]; !ok {
			return fmt.Errorf("genre %s not found", link.GenreID.String())
		}
	}

	for _, link := range links {
		duplicate := false
		for _, existing := range r.s.data.TitleGenres {
			if existing.TitleID == link.TitleID && existing.GenreID == link.GenreID {
				duplicate = true
				break
			}
		}
		if !duplicate {
			r.s.data.TitleGenres[link.ID] = *link
		}
	}
	return nil
}
