package user

import apperrors "github.com/gocomet/carpool/pkg/errors"

var (
	ErrUserNotFound  = apperrors.NotFound("user not found", nil)
	ErrAliasRequired = apperrors.Validation("alias is required", nil)
	ErrNameRequired  = apperrors.Validation("name is required", nil)
	ErrAliasTaken    = apperrors.Conflict("alias already exists", nil)
)
