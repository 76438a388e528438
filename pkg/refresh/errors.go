package refresh

import "errors"

var (
	// ErrControllerClosed is returned when operations are attempted on a closed controller.
	ErrControllerClosed = errors.New("refresh controller is closed")

	// ErrControllerRunning is returned when trying to start an already running controller.
	ErrControllerRunning = errors.New("refresh controller is already running")

	// ErrControllerNotRunning is returned when trying to stop a non-running controller.
	ErrControllerNotRunning = errors.New("refresh controller is not running")

	// ErrInvalidConfig is returned when the controller cannot be built.
	ErrInvalidConfig = errors.New("invalid refresh configuration")
)
