package memrepo

import (
	"context"
	"fmt"
	"sort"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
)

type userRepo struct{ s *Store }

// conflicts must be called with the lock held.
func (r *userRepo) conflicts(user *entity.User) bool {
	for id, existing := range r.s.data.Users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username || existing.Email == user.Email {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Users[user.ID]; ok || r.conflicts(user) {
		return fmt.Errorf("create user %s: %w", user.Username, repository.ErrDuplicate)
	}
	r.s.data.Users[user.ID] = *user
	r.s.track(user.ID)
	return nil
}

func (r *userRepo) find(match func(entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.data.Users {
		if match(user) {
			found := user
			return &found
		}
	}
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *userRepo) filtered(username *string) []*entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []*entity.User
	for _, user := range r.s.data.Users {
		if username != nil && user.Username != *username {
			continue
		}
		u := user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (r *userRepo) FindAll(_ context.Context, username *string, limit, offset int) ([]*entity.User, error) {
	return window(r.filtered(username), limit, offset), nil
}

func (r *userRepo) CountAll(_ context.Context, username *string) (int64, error) {
	return int64(len(r.filtered(username))), nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.data.Users[user.ID]
	if !ok {
		return fmt.Errorf("user %s not found", user.ID.String())
	}
	if r.conflicts(user) {
		return fmt.Errorf("update user %s: %w", user.ID.String(), repository.ErrDuplicate)
	}

	updated := *user
	updated.ConfirmationCode = existing.ConfirmationCode
	r.s.data.Users[user.ID] = updated
	return nil
}

func (r *userRepo) UpdateConfirmationCode(_ context.Context, id uuid.UUID, codeHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.data.Users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	user.ConfirmationCode = &codeHash
	r.s.data.Users[id] = user
	return nil
}

// Delete removes the user together with everything they authored.
func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.Users[id]; !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	delete(r.s.data.Users, id)

	for reviewID, review := range r.s.data.Reviews {
		if review.AuthorID == id {
			r.s.deleteReview(reviewID)
		}
	}
	for commentID, comment := range r.s.data.Comments {
		if comment.AuthorID == id {
			delete(r.s.data.Comments, commentID)
		}
	}
	return nil
}
