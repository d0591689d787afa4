package usecase

import (
	"yamdb/internal/data/entity"
	"yamdb/internal/permission"
	"yamdb/pkg/apperr"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// validate runs struct validation and converts failures into a VALIDATION error.
func validate(log *zap.Logger, operation string, req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		log.Warn(operation+" validation failed", zap.Any("errors", errs))
		return apperr.Validation("Validation failed", errs)
	}
	return nil
}

// authorize turns a permission decision into the matching typed error.
func authorize(policy permission.Policy, actor *entity.User, action permission.Action, res permission.Resource) error {
	switch permission.Evaluate(policy, actor, action, res) {
	case permission.Allow:
		return nil
	case permission.DenyUnauthenticated:
		return apperr.New(apperr.CodeAuthRequired, "Authentication credentials were not provided")
	default:
		return apperr.Forbidden("You do not have permission to perform this action")
	}
}

// requireActor rejects anonymous callers before any lookup happens.
func requireActor(actor *entity.User) error {
	if actor == nil {
		return apperr.New(apperr.CodeAuthRequired, "Authentication credentials were not provided")
	}
	return nil
}

// parseID treats a malformed path id like an unknown one.
func parseID(raw, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound(resource + " not found")
	}
	return id, nil
}
