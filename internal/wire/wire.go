package wire

import (
	"net/http"

	"yamdb/internal/adaptor"
	"yamdb/internal/data/repository"
	"yamdb/internal/notifier"
	"yamdb/internal/usecase"
	"yamdb/pkg/middleware"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of the given store.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	generator utils.CodeGenerator,
	mailer notifier.Notifier,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, generator, mailer, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.StripSlashes)
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseMethodNotAllowed(w)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	issuer := utils.NewTokenIssuer(config.JWT)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(issuer, repo.User, logger))

		wireAuth(r, handler.Auth)
		wireUser(r, handler.User)
		wireCategory(r, handler.Category)
		wireGenre(r, handler.Genre)
		wireTitle(r, handler.Title, handler.Review, handler.Comment)
	})

	return r
}
