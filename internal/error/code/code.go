package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: invalid request parameters.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: unauthorized.
	StatusUnauthorized = 401
	// StatusForbidden - 403: forbidden.
	StatusForbidden = 403
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusConflict - 409: conflicting request.
	StatusConflict = 409
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
	// StatusBadGateway - 502: upstream failure.
	StatusBadGateway = 502
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
	// ErrTokenInvalid - 401: invalid token.
	ErrTokenInvalid
	// ErrForbidden - 403: insufficient role.
	ErrForbidden
)

// User error codes (101xxx).
const (
	// ErrUserNotFound - 404: user does not exist.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: user already exists.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: incorrect username or password.
	ErrUserPasswordIncorrect
)

// Room error codes (102xxx).
const (
	// ErrRoomNotFound - 404: room does not exist.
	ErrRoomNotFound int = iota + 102000
	// ErrRoomAlreadyExist - 400: room already exists.
	ErrRoomAlreadyExist
	// ErrRoomStillLinked - 409: room still owns an acquisition system.
	ErrRoomStillLinked
	// ErrRoomRefreshFailed - 502: room refresh did not complete.
	ErrRoomRefreshFailed
)

// Acquisition system error codes (103xxx).
const (
	// ErrSystemNotFound - 404: acquisition system does not exist.
	ErrSystemNotFound int = iota + 103000
	// ErrSystemAlreadyExist - 400: acquisition system already exists.
	ErrSystemAlreadyExist
	// ErrSystemStillLinked - 409: acquisition system is still linked.
	ErrSystemStillLinked
	// ErrNoUnlinkedSystem - 409: no unlinked acquisition system available.
	ErrNoUnlinkedSystem
)

// Action error codes (104xxx).
const (
	// ErrActionNotFound - 404: action does not exist.
	ErrActionNotFound int = iota + 104000
	// ErrActionInvalidTransition - 409: transition not allowed from the current state.
	ErrActionInvalidTransition
	// ErrActionConflict - 409: an open assignment or unassignment already exists.
	ErrActionConflict
	// ErrActionNotRepaired - 400: maintenance outcome was not repaired.
	ErrActionNotRepaired
)

// Database error codes (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
)

// Threshold error codes (106xxx).
const (
	// ErrThresholdOrdering - 400: threshold ordering invariant violated.
	ErrThresholdOrdering int = iota + 106000
)

// Notification error codes (107xxx).
const (
	// ErrNotificationNotFound - 404: notification does not exist.
	ErrNotificationNotFound int = iota + 107000
)
