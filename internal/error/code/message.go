package code

// Error code to message mapping
var codeMessageMap = map[int]string{
	// Common error codes
	ErrSuccess:      "success",
	ErrUnknown:      "unknown error",
	ErrBind:         "request binding error",
	ErrValidation:   "request validation error",
	ErrTokenInvalid: "invalid authentication token",
	ErrForbidden:    "insufficient permissions",

	// User error codes
	ErrUserNotFound:          "user does not exist",
	ErrUserAlreadyExist:      "user already exists",
	ErrUserPasswordIncorrect: "incorrect username or password",

	// Room error codes
	ErrRoomNotFound:      "room does not exist",
	ErrRoomAlreadyExist:  "room already exists",
	ErrRoomStillLinked:   "room still has a linked acquisition system",
	ErrRoomRefreshFailed: "room refresh did not complete, previous state kept",

	// Acquisition system error codes
	ErrSystemNotFound:     "acquisition system does not exist",
	ErrSystemAlreadyExist: "acquisition system already exists",
	ErrSystemStillLinked:  "acquisition system is still linked to a room",
	ErrNoUnlinkedSystem:   "no unlinked acquisition system available, create one first",

	// Action error codes
	ErrActionNotFound:          "action does not exist",
	ErrActionInvalidTransition: "transition not allowed from the current action state",
	ErrActionConflict:          "room already has an open assignment or unassignment action",
	ErrActionNotRepaired:       "system not repaired, action stays in progress",

	// Database error codes
	ErrDatabase:       "database error",
	ErrRecordNotFound: "record not found",

	// Threshold error codes
	ErrThresholdOrdering: "threshold bounds must be strictly ascending: criticalMin < warningMin < warningMax < criticalMax",

	// Notification error codes
	ErrNotificationNotFound: "notification does not exist",
}

// Error code to HTTP status mapping
var codeStatusMap = map[int]int{
	// Common error codes
	ErrSuccess:      StatusOK,
	ErrUnknown:      StatusInternalServerError,
	ErrBind:         StatusBadRequest,
	ErrValidation:   StatusBadRequest,
	ErrTokenInvalid: StatusUnauthorized,
	ErrForbidden:    StatusForbidden,

	// User error codes
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// Room error codes
	ErrRoomNotFound:      StatusNotFound,
	ErrRoomAlreadyExist:  StatusBadRequest,
	ErrRoomStillLinked:   StatusConflict,
	ErrRoomRefreshFailed: StatusBadGateway,

	// Acquisition system error codes
	ErrSystemNotFound:     StatusNotFound,
	ErrSystemAlreadyExist: StatusBadRequest,
	ErrSystemStillLinked:  StatusConflict,
	ErrNoUnlinkedSystem:   StatusConflict,

	// Action error codes
	ErrActionNotFound:          StatusNotFound,
	ErrActionInvalidTransition: StatusConflict,
	ErrActionConflict:          StatusConflict,
	ErrActionNotRepaired:       StatusBadRequest,

	// Database error codes
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// Threshold error codes
	ErrThresholdOrdering: StatusBadRequest,

	// Notification error codes
	ErrNotificationNotFound: StatusNotFound,
}

// GetMessage returns the message for an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "unknown error"
}

// GetStatus returns the HTTP status for an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
