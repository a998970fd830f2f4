package controllers

import (
	"errors"

	"roomsense-http-service/internal/error/code"
	"roomsense-http-service/services"
)

// serviceErrorCode maps recoverable service errors to API error codes.
// Anything unmapped is an unexpected server-side failure.
func serviceErrorCode(err error) int {
	switch {
	case errors.Is(err, services.ErrRoomNotFound):
		return code.ErrRoomNotFound
	case errors.Is(err, services.ErrRoomAlreadyExist):
		return code.ErrRoomAlreadyExist
	case errors.Is(err, services.ErrRoomStillLinked):
		return code.ErrRoomStillLinked
	case errors.Is(err, services.ErrSystemNotFound):
		return code.ErrSystemNotFound
	case errors.Is(err, services.ErrSystemAlreadyExist):
		return code.ErrSystemAlreadyExist
	case errors.Is(err, services.ErrSystemStillLinked),
		errors.Is(err, services.ErrSystemAlreadyLinked),
		errors.Is(err, services.ErrRoomAlreadyLinked),
		errors.Is(err, services.ErrRoomNotLinked):
		return code.ErrSystemStillLinked
	case errors.Is(err, services.ErrNoUnlinkedSystem):
		return code.ErrNoUnlinkedSystem
	case errors.Is(err, services.ErrActionNotFound):
		return code.ErrActionNotFound
	case errors.Is(err, services.ErrInvalidTransition):
		return code.ErrActionInvalidTransition
	case errors.Is(err, services.ErrOpenActionConflict):
		return code.ErrActionConflict
	case errors.Is(err, services.ErrNotRepaired),
		errors.Is(err, services.ErrRepairedFlagRequired):
		return code.ErrActionNotRepaired
	case errors.Is(err, services.ErrInvalidThresholdOrdering):
		return code.ErrThresholdOrdering
	case errors.Is(err, services.ErrSensorSourceUnavailable):
		return code.ErrRoomRefreshFailed
	case errors.Is(err, services.ErrNotificationNotFound):
		return code.ErrNotificationNotFound
	case errors.Is(err, services.ErrUserNotFound):
		return code.ErrUserNotFound
	case errors.Is(err, services.ErrUserAlreadyExist):
		return code.ErrUserAlreadyExist
	case errors.Is(err, services.ErrInvalidCredentials):
		return code.ErrUserPasswordIncorrect
	default:
		return code.ErrUnknown
	}
}
