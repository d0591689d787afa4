// Package memrepo is an in-memory implementation of the repository
// interfaces. It backs STORE_DRIVER=memory and the service and handler tests.
package memrepo

import (
	"sort"
	"strings"
	"sync"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
)

type dataset struct {
	Users       map[uuid.UUID]entity.User
	Categories  map[uuid.UUID]entity.Category
	Genres      map[uuid.UUID]entity.Genre
	Titles      map[uuid.UUID]entity.Title
	TitleGenres map[uuid.UUID]entity.TitleGenre
	Reviews     map[uuid.UUID]entity.Review
	Comments    map[uuid.UUID]entity.Comment
}

// Store holds every table behind one lock so cascades stay atomic.
type Store struct {
	mu   sync.RWMutex
	data dataset
	// seq records insertion order to break created_at ties.
	seq  map[uuid.UUID]int64
	next int64
}

func NewStore() *Store {
	return &Store{
		data: dataset{
			Users:       make(map[uuid.UUID]entity.User),
			Categories:  make(map[uuid.UUID]entity.Category),
			Genres:      make(map[uuid.UUID]entity.Genre),
			Titles:      make(map[uuid.UUID]entity.Title),
			TitleGenres: make(map[uuid.UUID]entity.TitleGenre),
			Reviews:     make(map[uuid.UUID]entity.Review),
			Comments:    make(map[uuid.UUID]entity.Comment),
		},
		seq: make(map[uuid.UUID]int64),
	}
}

// New returns a Repository whose members all share one fresh Store.
func New() *repository.Repository {
	return NewStore().Repository()
}

func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:       &userRepo{s},
		Category:   &categoryRepo{s},
		Genre:      &genreRepo{s},
		Title:      &titleRepo{s},
		TitleGenre: &titleGenreRepo{s},
		Review:     &reviewRepo{s},
		Comment:    &commentRepo{s},
	}
}

// track must be called with the write lock held.
func (s *Store) track(id uuid.UUID) {
	s.next++
	s.seq[id] = s.next
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func containsFold(s string, search *string) bool {
	if search == nil {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(*search))
}

// newestFirst orders by created_at desc, then by reverse insertion order.
func newestFirst[T any](s *Store, items []T, key func(T) (int64, uuid.UUID)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti > tj
		}
		return s.seq[idi] > s.seq[idj]
	})
}
