package usecase

import (
	"yamdb/internal/data/repository"
	"yamdb/internal/notifier"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Genre    GenreService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	generator utils.CodeGenerator,
	mailer notifier.Notifier,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, generator, mailer, log),
		User:     NewUserService(repo.User, log),
		Category: NewCategoryService(repo, log),
		Genre:    NewGenreService(repo, log),
		Title:    NewTitleService(repo, log),
		Review:   NewReviewService(repo, log),
		Comment:  NewCommentService(repo, log),
	}
}
