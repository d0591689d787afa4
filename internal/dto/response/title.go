package response

import (
	"math"

	"yamdb/internal/data/entity"
)

type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *int              `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

// TitleToResponse truncates the average rating to an integer.
func TitleToResponse(title *entity.Title, category *entity.Category, genres []*entity.Genre) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Genre:       make([]GenreResponse, 0, len(genres)),
	}

	if title.Rating != nil {
		rating := int(math.Floor(*title.Rating))
		resp.Rating = &rating
	}
	if category != nil {
		c := CategoryToResponse(category)
		resp.Category = &c
	}
	for _, genre := range genres {
		resp.Genre = append(resp.Genre, GenreToResponse(genre))
	}

	return resp
}
