package request

// TitleRequest references genres and the category by slug. Genre must be
// present but may be an empty list.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,notfuture"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre" validate:"required,dive,slug"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
}

// TitleUpdateRequest is a partial update. A non-nil empty Genre clears the
// title's genres.
type TitleUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=256"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,notfuture"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre,omitempty" validate:"omitempty,dive,slug"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,slug"`
}

// TitleListQuery carries the list filters taken from the query string.
type TitleListQuery struct {
	PaginatedRequest
	Genre    *string
	Category *string
	Name     *string
	Year     *int
	Ordering string
}
