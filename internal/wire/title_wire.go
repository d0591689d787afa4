package wire

import (
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTitle(r chi.Router, titleHandler *adaptor.TitleHandler, reviewHandler *adaptor.ReviewHandler, commentHandler *adaptor.CommentHandler) {
	r.Route("/titles", func(r chi.Router) {
		r.Get("/", titleHandler.GetTitles)
		r.Post("/", titleHandler.CreateTitle)

		r.Route("/{titleID}", func(r chi.Router) {
			r.Get("/", titleHandler.GetTitleByID)
			r.Patch("/", titleHandler.UpdateTitle)
			r.Delete("/", titleHandler.DeleteTitle)

			wireReview(r, reviewHandler, commentHandler)
		})
	})
}
