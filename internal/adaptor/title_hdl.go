package adaptor

import (
	"net/http"
	"strconv"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// GetTitles handles GET /api/v1/titles
// Filters: genre, category (slugs), name (contains), year. Ordering: id, name, year, rating.
func (h *TitleHandler) GetTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.TitleListQuery{
		PaginatedRequest: pageFromQuery(query),
		Genre:            optionalQuery(query, "genre"),
		Category:         optionalQuery(query, "category"),
		Name:             optionalQuery(query, "name"),
		Ordering:         query.Get("ordering"),
	}

	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"year": "year must be a whole number"})
			return
		}
		req.Year = &year
	}

	titles, err := h.service.GetTitles(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "get titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// GetTitleByID handles GET /api/v1/titles/{titleID}
func (h *TitleHandler) GetTitleByID(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.GetTitleByID(r.Context(), chi.URLParam(r, "titleID"))
	if err != nil {
		writeServiceError(w, h.log, err, "get title by ID")
		return
	}

	utils.ResponseSuccess(w, "Title retrieved successfully", title)
}

// CreateTitle handles POST /api/v1/titles (staff only)
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.CreateTitle(r.Context(), utils.GetUserFromContext(r.Context()), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create title")
		return
	}

	utils.ResponseCreated(w, "Title created successfully", title)
}

// UpdateTitle handles PATCH /api/v1/titles/{titleID} (staff only)
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), utils.GetUserFromContext(r.Context()), chi.URLParam(r, "titleID"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "Title updated successfully", title)
}

// DeleteTitle handles DELETE /api/v1/titles/{titleID} (staff only)
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTitle(r.Context(), utils.GetUserFromContext(r.Context()), chi.URLParam(r, "titleID")); err != nil {
		writeServiceError(w, h.log, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
