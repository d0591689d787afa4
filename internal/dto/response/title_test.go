package response

import (
	"testing"

	"yamdb/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleToResponse(t *testing.T) {
	rating := 7.9
	title := &entity.Title{Base: entity.Base{ID: uuid.New()}, Name: "Dune", Year: 1965, Rating: &rating}
	category := &entity.Category{Name: "Books", Slug: "books"}
	genres := []*entity.Genre{{Name: "Sci-Fi", Slug: "sci-fi"}}

	resp := TitleToResponse(title, category, genres)

	require.NotNil(t, resp.Rating)
	assert.Equal(t, 7, *resp.Rating)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "books", resp.Category.Slug)
	assert.Equal(t, []GenreResponse{{Name: "Sci-Fi", Slug: "sci-fi"}}, resp.Genre)
}

func TestTitleToResponseWithoutReviewsOrCategory(t *testing.T) {
	resp := TitleToResponse(&entity.Title{Name: "Untitled"}, nil, nil)

	assert.Nil(t, resp.Rating)
	assert.Nil(t, resp.Category)
	assert.NotNil(t, resp.Genre)
	assert.Empty(t, resp.Genre)
}
