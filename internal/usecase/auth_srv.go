package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/internal/notifier"
	"yamdb/pkg/apperr"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

const confirmationSubject = "confirmation_code"

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	IssueToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo      *repository.Repository
	generator utils.CodeGenerator
	notifier  notifier.Notifier
	issuer    *utils.TokenIssuer
	from      string
	log       *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	generator utils.CodeGenerator,
	mailer notifier.Notifier,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		generator: generator,
		notifier:  mailer,
		issuer:    utils.NewTokenIssuer(config.JWT),
		from:      config.Email.From,
		log:       log.With(zap.String("service", "auth")),
	}
}

// Signup finds or creates the user matching both username and email, then
// rotates and mails a fresh confirmation code. The code never leaves the
// service except through the notifier.
func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	if err := validate(s.log, "Signup", req); err != nil {
		return nil, err
	}

	user, err := s.findOrCreate(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.sendCode(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("Confirmation code issued",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	resp := response.SignupToResponse(user)
	return &resp, nil
}

func (s *authService) findOrCreate(ctx context.Context, username, email string) (*entity.User, error) {
	existing, err := s.matchExisting(ctx, username, email)
	if err != nil || existing != nil {
		return existing, err
	}

	now := time.Now()
	user := &entity.User{
		Base:     entity.NewBase(now),
		Username: username,
		Email:    email,
		Role:     entity.RoleUser,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Internal("Failed to create user", err)
		}

		// lost a race with a concurrent signup; same identity continues
		existing, err := s.matchExisting(ctx, username, email)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperr.Conflict("Username or email is already taken")
		}
		return existing, nil
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
	)
	return user, nil
}

// matchExisting returns the user owning both username and email, nil when
// neither is taken, or a conflict when they belong to different records.
func (s *authService) matchExisting(ctx context.Context, username, email string) (*entity.User, error) {
	byName, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Internal("Failed to look up user", err)
	}
	byEmail, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("Failed to look up user", err)
	}

	switch {
	case byName == nil && byEmail == nil:
		return nil, nil
	case byName != nil && byEmail != nil && byName.ID == byEmail.ID:
		return byName, nil
	default:
		s.log.Warn("Signup identity conflict",
			zap.String("username", username),
			zap.String("email", email),
		)
		return nil, signupConflict(byName != nil, byEmail != nil)
	}
}

func signupConflict(usernameTaken, emailTaken bool) error {
	fields := map[string]string{}
	if usernameTaken {
		fields["username"] = "Username is registered with a different email"
	}
	if emailTaken {
		fields["email"] = "Email is registered with a different username"
	}
	return &apperr.Error{
		Code:    apperr.CodeConflict,
		Message: "Username and email do not match an existing user",
		Fields:  fields,
	}
}

// rotateCode stores a new code hash and returns the plain code.
func (s *authService) rotateCode(ctx context.Context, user *entity.User) (int64, error) {
	code := s.generator.Generate()
	hash, err := utils.HashCode(code)
	if err != nil {
		return 0, apperr.Internal("Failed to hash confirmation code", err)
	}
	if err := s.repo.User.UpdateConfirmationCode(ctx, user.ID, hash); err != nil {
		return 0, apperr.Internal("Failed to store confirmation code", err)
	}
	user.ConfirmationCode = &hash
	return code, nil
}

func (s *authService) sendCode(ctx context.Context, user *entity.User) error {
	code, err := s.rotateCode(ctx, user)
	if err != nil {
		return err
	}

	msg := notifier.Message{
		Subject: confirmationSubject,
		Body:    fmt.Sprintf("Here is confirmation_code %d", code),
		From:    s.from,
		To:      []string{user.Email},
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error("Failed to deliver confirmation code",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return apperr.Internal("Failed to send confirmation code", err)
	}
	return nil
}

// IssueToken exchanges a matching confirmation code for an access token.
// A wrong code is replaced so it cannot be guessed further.
func (s *authService) IssueToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validate(s.log, "Token", req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.Internal("Failed to look up user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if !utils.CheckCode(req.ConfirmationCode.String(), user.ConfirmationCode) {
		s.log.Warn("Confirmation code mismatch", zap.String("user_id", user.ID.String()))
		if _, err := s.rotateCode(ctx, user); err != nil {
			return nil, err
		}
		return nil, &apperr.Error{
			Code:    apperr.CodeAuthentication,
			Message: "Invalid confirmation code",
			Fields:  map[string]string{"confirmation_code": "Invalid confirmation code"},
		}
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, apperr.Internal("Failed to issue token", err)
	}

	s.log.Info("Token issued", zap.String("user_id", user.ID.String()))
	return &response.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}
