package ride

import apperrors "github.com/gocomet/carpool/pkg/errors"

var (
	ErrRideNotFound   = apperrors.NotFound("ride not found", nil)
	ErrDriverNotFound = apperrors.NotFound("driver not found", nil)

	ErrDateTimeRequired      = apperrors.Validation("rideDateAndTime is required", nil)
	ErrFinalAddressRequired  = apperrors.Validation("finalAddress is required", nil)
	ErrAllowedSpacesRequired = apperrors.Validation("allowedSpaces is required", nil)
	ErrNegativeSpaces        = apperrors.Validation("allowedSpaces cannot be negative", nil)
	ErrDriverRequired        = apperrors.Validation("driver is required", nil)
	ErrParticipantRequired   = apperrors.Validation("participant is required", nil)
	ErrInvalidOccupiedSpaces = apperrors.Validation("occupiedSpaces must be greater than zero", nil)
)
