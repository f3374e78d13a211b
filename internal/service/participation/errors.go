package participation

import apperrors "github.com/gocomet/carpool/pkg/errors"

var (
	ErrParticipantNotFound = apperrors.NotFound("participant not found", nil)
	ErrRideAlreadyStarted  = apperrors.InvalidState("ride already started", nil)
	ErrAlreadyRequested    = apperrors.Conflict("already requested", nil)
	ErrInsufficientSpaces  = apperrors.CapacityExceeded("insufficient spaces", nil)
	ErrInvalidRequest      = apperrors.InvalidState("invalid request", nil)
	ErrUnprocessedRequests = apperrors.InvalidState("unprocessed requests exist", nil)
	ErrRideAlreadyFinished = apperrors.InvalidState("ride already finished", nil)
	ErrCannotDisembark     = apperrors.InvalidState("cannot disembark now", nil)
)
