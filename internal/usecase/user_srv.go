package usecase

import (
	"context"
	"errors"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/internal/permission"
	"yamdb/pkg/apperr"

	"go.uber.org/zap"
)

type UserService interface {
	GetAllUsers(ctx context.Context, actor *entity.User, search *string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateUser(ctx context.Context, actor *entity.User, req *request.UserCreateRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, actor *entity.User, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, actor *entity.User, username string, req *request.UserUpdateRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, actor *entity.User, username string) error

	// Self-service; any authenticated user.
	GetMe(ctx context.Context, actor *entity.User) (*response.UserResponse, error)
	UpdateMe(ctx context.Context, actor *entity.User, req *request.UserUpdateRequest) (*response.UserResponse, error)

	// CreateSuperuser is for trusted callers such as the CLI.
	CreateSuperuser(ctx context.Context, username, email string) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetAllUsers(ctx context.Context, actor *entity.User, search *string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := authorize(permission.AdminOnly, actor, permission.List, permission.Resource{}); err != nil {
		return nil, err
	}

	users, err := us.userRepo.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperr.Internal("Failed to get users", err)
	}
	total, err := us.userRepo.CountAll(ctx, search)
	if err != nil {
		return nil, apperr.Internal("Failed to count users", err)
	}

	data := make([]response.UserResponse, 0, len(users))
	for _, user := range users {
		data = append(data, response.UserToResponse(user))
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), req.Limit(), total), nil
}

func (us *userService) CreateUser(ctx context.Context, actor *entity.User, req *request.UserCreateRequest) (*response.UserResponse, error) {
	if err := authorize(permission.AdminOnly, actor, permission.Create, permission.Resource{}); err != nil {
		return nil, err
	}
	if err := validate(us.log, "Create user", req); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != nil {
		role = entity.UserRole(*req.Role)
	}

	now := time.Now()
	user := &entity.User{
		Base:      entity.NewBase(now),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := us.create(ctx, user); err != nil {
		return nil, err
	}

	us.log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("by", actor.Username),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) create(ctx context.Context, user *entity.User) error {
	if err := us.ensureUnique(ctx, user); err != nil {
		return err
	}
	if err := us.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Validation("Validation failed", map[string]string{
				"username": "A user with that username or email already exists",
			})
		}
		return apperr.Internal("Failed to create user", err)
	}
	return nil
}

// ensureUnique reports username and email clashes with other users as field errors.
func (us *userService) ensureUnique(ctx context.Context, user *entity.User) error {
	fields := map[string]string{}

	byName, err := us.userRepo.FindByUsername(ctx, user.Username)
	if err != nil {
		return apperr.Internal("Failed to check username", err)
	}
	if byName != nil && byName.ID != user.ID {
		fields["username"] = "A user with that username already exists"
	}

	byEmail, err := us.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		return apperr.Internal("Failed to check email", err)
	}
	if byEmail != nil && byEmail.ID != user.ID {
		fields["email"] = "A user with that email already exists"
	}

	if len(fields) > 0 {
		return apperr.Validation("Validation failed", fields)
	}
	return nil
}

func (us *userService) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Internal("Failed to get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (us *userService) GetUser(ctx context.Context, actor *entity.User, username string) (*response.UserResponse, error) {
	if err := authorize(permission.AdminOnly, actor, permission.Retrieve, permission.Resource{}); err != nil {
		return nil, err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, actor *entity.User, username string, req *request.UserUpdateRequest) (*response.UserResponse, error) {
	if err := authorize(permission.AdminOnly, actor, permission.Update, permission.Resource{}); err != nil {
		return nil, err
	}
	if err := validate(us.log, "Update user", req); err != nil {
		return nil, err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	applyUserUpdate(user, req)
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}

	if err := us.save(ctx, user); err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) DeleteUser(ctx context.Context, actor *entity.User, username string) error {
	if err := authorize(permission.AdminOnly, actor, permission.Delete, permission.Resource{}); err != nil {
		return err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := us.userRepo.Delete(ctx, user.ID); err != nil {
		return apperr.Internal("Failed to delete user", err)
	}

	us.log.Info("User deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("by", actor.Username),
	)
	return nil
}

func (us *userService) GetMe(ctx context.Context, actor *entity.User) (*response.UserResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	resp := response.UserToResponse(actor)
	return &resp, nil
}

// UpdateMe applies profile changes to the caller. Role is never taken from
// the request.
func (us *userService) UpdateMe(ctx context.Context, actor *entity.User, req *request.UserUpdateRequest) (*response.UserResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validate(us.log, "Update me", req); err != nil {
		return nil, err
	}

	// reload so a stale context copy cannot overwrite newer fields
	user, err := us.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	role := user.Role
	applyUserUpdate(user, req)
	user.Role = role

	if err := us.save(ctx, user); err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) CreateSuperuser(ctx context.Context, username, email string) (*response.UserResponse, error) {
	req := &request.UserCreateRequest{Username: username, Email: email}
	if err := validate(us.log, "Create superuser", req); err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Base:        entity.NewBase(now),
		Username:    username,
		Email:       email,
		Role:        entity.RoleAdmin,
		IsSuperuser: true,
	}

	if err := us.create(ctx, user); err != nil {
		return nil, err
	}

	us.log.Info("Superuser created", zap.String("username", username))
	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) save(ctx context.Context, user *entity.User) error {
	if err := us.ensureUnique(ctx, user); err != nil {
		return err
	}

	user.Touch(time.Now())
	if err := us.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Validation("Validation failed", map[string]string{
				"username": "A user with that username or email already exists",
			})
		}
		return apperr.Internal("Failed to update user", err)
	}
	return nil
}

// applyUserUpdate copies the profile fields set in req. Role is left to the caller.
func applyUserUpdate(user *entity.User, req *request.UserUpdateRequest) {
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
}
