package memrepo

import (
	"cmp"
	"context"
	"fmt"
	"sort"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
)

type titleRepo struct{ s *Store }

func (r *titleRepo) Create(_ context.Context, title *entity.Title) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if title.CategoryID != nil {
		if _, ok := r.s.data.Categories[*title.CategoryID]; !ok {
			return fmt.Errorf("category %s not found", title.CategoryID.String())
		}
	}
	stored := *title
	stored.Rating = nil
	r.s.data.Titles[title.ID] = stored
	r.s.track(title.ID)
	return nil
}

// withRating must be called with the lock held.
func (s *Store) withRating(title entity.Title) *entity.Title {
	var sum, count int
	for _, review := range s.data.Reviews {
		if review.TitleID == title.ID {
			sum += review.Score
			count++
		}
	}
	if count > 0 {
		avg := float64(sum) / float64(count)
		title.Rating = &avg
	}
	return &title
}

func (r *titleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Title, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	title, ok := r.s.data.Titles[id]
	if !ok {
		return nil, nil
	}
	return r.s.withRating(title), nil
}

// matches must be called with the lock held.
func (s *Store) matches(title entity.Title, filter repository.TitleFilter) bool {
	if filter.Name != nil && !containsFold(title.Name, filter.Name) {
		return false
	}
	if filter.Year != nil && title.Year != *filter.Year {
		return false
	}
	if filter.CategorySlug != nil {
		if title.CategoryID == nil {
			return false
		}
		category, ok := s.data.Categories[*title.CategoryID]
		if !ok || category.Slug != *filter.CategorySlug {
			return false
		}
	}
	if filter.GenreSlug != nil {
		found := false
		for _, link := range s.data.TitleGenres {
			if link.TitleID != title.ID {
				continue
			}
			if genre, ok := s.data.Genres[link.GenreID]; ok && genre.Slug == *filter.GenreSlug {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *titleRepo) filtered(filter repository.TitleFilter) []*entity.Title {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var titles []*entity.Title
	for _, title := range r.s.data.Titles {
		if r.s.matches(title, filter) {
			titles = append(titles, r.s.withRating(title))
		}
	}

	field, desc := filter.OrderField()
	sort.SliceStable(titles, func(i, j int) bool {
		a, b := titles[i], titles[j]
		var c int
		switch field {
		case "id":
			c = cmp.Compare(a.ID.String(), b.ID.String())
		case "year":
			c = cmp.Compare(a.Year, b.Year)
		case "rating":
			// unrated titles sort last in either direction
			if (a.Rating == nil) != (b.Rating == nil) {
				return b.Rating == nil
			}
			if a.Rating != nil {
				c = cmp.Compare(*a.Rating, *b.Rating)
			}
		default:
			c = cmp.Compare(a.Name, b.Name)
		}
		if c == 0 {
			return a.ID.String() < b.ID.String()
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return titles
}

func (r *titleRepo) FindAll(_ context.Context, filter repository.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	return window(r.filtered(filter), limit, offset), nil
}

func (r *titleRepo) CountAll(_ context.Context, filter repository.TitleFilter) (int64, error) {
	return int64(len(r.filtered(filter))), nil
}

// Update checks every reference before writing, so a failed call changes nothing.
func (r *titleRepo) Update(_ context.Context, title *entity.Title, links []*entity.TitleGenre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Titles[title.ID]; !ok {
		return fmt.Errorf("title %s not found", title.ID.String())
	}
	if title.CategoryID != nil {
		if _, ok := r.s.data.Categories[*title.CategoryID]; !ok {
			return fmt.Errorf("category %s not found", title.CategoryID.String())
		}
	}
	for _, link := range links {
		if link.TitleID != title.ID {
			return fmt.Errorf("genre link %s belongs to title %s", link.ID.String(), link.TitleID.String())
		}
		if _, ok := r.s.data.Genres[link.GenreID]; !ok {
			return fmt.Errorf("genre %s not found", link.GenreID.String())
		}
	}

	stored := *title
	stored.Rating = nil
	r.s.data.Titles[title.ID] = stored

	if links != nil {
		for linkID, link := range r.s.data.TitleGenres {
			if link.TitleID == title.ID {
				delete(r.s.data.TitleGenres, linkID)
			}
		}
		for _, link := range links {
			r.s.data.TitleGenres[link.ID] = *link
		}
	}
	return nil
}

// Delete removes the title, its genre links and its reviews.
func (r *titleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Titles[id]; !ok {
		return fmt.Errorf("title %s not found", id.String())
	}
	delete(r.s.data.Titles, id)

	for linkID, link := range r.s.data.TitleGenres {
		if link.TitleID == id {
			delete(r.s.data.TitleGenres, linkID)
		}
	}
	for reviewID, review := range r.s.data.Reviews {
		if review.TitleID == id {
			r.s.deleteReview(reviewID)
		}
	}
	return nil
}
