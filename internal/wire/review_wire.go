package wire

import (
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireReview mounts reviews and their comments under a title route.
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, commentHandler *adaptor.CommentHandler) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.GetReviews)
		r.Post("/", reviewHandler.CreateReview)

		r.Route("/{reviewID}", func(r chi.Router) {
			r.Get("/", reviewHandler.GetReview)
			r.Patch("/", reviewHandler.UpdateReview)
			r.Delete("/", reviewHandler.DeleteReview)

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", commentHandler.GetComments)
				r.Post("/", commentHandler.CreateComment)
				r.Get("/{commentID}", commentHandler.GetComment)
				r.Patch("/{commentID}", commentHandler.UpdateComment)
				r.Delete("/{commentID}", commentHandler.DeleteComment)
			})
		})
	})
}
