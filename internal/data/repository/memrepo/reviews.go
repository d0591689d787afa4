package memrepo

import (
	"context"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
)

// deleteReview must be called with the write lock held.
func (s *Store) deleteReview(id uuid.UUID) {
	delete(s.data.Reviews, id)
	for commentID, comment := range s.data.Comments {
		if comment.ReviewID == id {
			delete(s.data.Comments, commentID)
		}
	}
}

type reviewRepo struct{ s *Store }

func (r *reviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Titles[review.TitleID]; !ok {
		return fmt.Errorf("title %s not found", review.TitleID.String())
	}
	for _, existing := range r.s.data.Reviews {
		if existing.AuthorID == review.AuthorID && existing.TitleID == review.TitleID {
			return fmt.Errorf("create review for title %s: %w", review.TitleID.String(), repository.ErrDuplicate)
		}
	}
	r.s.data.Reviews[review.ID] = *review
	r.s.track(review.ID)
	return nil
}

func (r *reviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if review, ok := r.s.data.Reviews[id]; ok {
		return &review, nil
	}
	return nil, nil
}

func (r *reviewRepo) byTitle(titleID uuid.UUID) []*entity.Review {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var reviews []*entity.Review
	for _, review := range r.s.data.Reviews {
		if review.TitleID == titleID {
			rv := review
			reviews = append(reviews, &rv)
		}
	}
	newestFirst(r.s, reviews, func(rv *entity.Review) (int64, uuid.UUID) {
		return rv.CreatedAt.UnixNano(), rv.ID
	})
	return reviews
}

func (r *reviewRepo) FindByTitleID(_ context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return window(r.byTitle(titleID), limit, offset), nil
}

func (r *reviewRepo) FindByAuthorAndTitle(_ context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, review := range r.s.data.Reviews {
		if review.AuthorID == authorID && review.TitleID == titleID {
			found := review
			return &found, nil
		}
	}
	return nil, nil
}

func (r *reviewRepo) CountByTitleID(_ context.Context, titleID uuid.UUID) (int64, error) {
	return int64(len(r.byTitle(titleID))), nil
}

func (r *reviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.data.Reviews[review.ID]
	if !ok {
		return fmt.Errorf("review %s not found", review.ID.String())
	}
	existing.Score = review.Score
	existing.Text = review.Text
	r.s.data.Reviews[review.ID] = existing
	return nil
}

func (r *reviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Reviews[id]; !ok {
		return fmt.Errorf("review %s not found", id.String())
	}
	r.s.deleteReview(id)
	return nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Reviews[comment.ReviewID]; !ok {
		return fmt.Errorf("review %s not found", comment.ReviewID.String())
	}
	r.s.data.Comments[comment.ID] = *comment
	r.s.track(comment.ID)
	return nil
}

func (r *commentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if comment, ok := r.s.data.Comments[id]; ok {
		return &comment, nil
	}
	return nil, nil
}

func (r *commentRepo) byReview(reviewID uuid.UUID) []*entity.Comment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var comments []*entity.Comment
	for _, comment := range r.s.data.Comments {
		if comment.ReviewID == reviewID {
			c := comment
			comments = append(comments, &c)
		}
	}
	newestFirst(r.s, comments, func(c *entity.Comment) (int64, uuid.UUID) {
		return c.CreatedAt.UnixNano(), c.ID
	})
	return comments
}

func (r *commentRepo) FindByReviewID(_ context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	return window(r.byReview(reviewID), limit, offset), nil
}

func (r *commentRepo) CountByReviewID(_ context.Context, reviewID uuid.UUID) (int64, error) {
	return int64(len(r.byReview(reviewID))), nil
}

func (r *commentRepo) Update(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.data.Comments[comment.ID]
	if !ok {
		return fmt.Errorf("comment %s not found", comment.ID.String())
	}
	existing.Text = comment.Text
	r.s.data.Comments[comment.ID] = existing
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Comments[id]; !ok {
		return fmt.Errorf("comment %s not found", id.String())
	}
	delete(r.s.data.Comments, id)
	return nil
}
