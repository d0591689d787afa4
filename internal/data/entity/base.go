package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base is embedded by records that can be edited after creation.
type Base struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BaseSimple is embedded by records without an updated_at column. For
// reviews and comments CreatedAt is the pub_date.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// NewBase assigns a fresh id stamped at now.
func NewBase(now time.Time) Base {
	return Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func NewBaseSimple(now time.Time) BaseSimple {
	return BaseSimple{ID: uuid.New(), CreatedAt: now}
}

// Touch bumps UpdatedAt.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now
}
