package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
)

// dropOutput receives events the configured writers failed to take.
var dropOutput io.Writer = os.Stderr //nolint:gochecknoglobals

// dropped reports a lost event and counts it. It can not log, the logger is what failed.
func dropped(err error) {
	droppedEvents.Inc()

	_, _ = fmt.Fprintf(dropOutput, "recipebook-web: log event dropped: %v\n", err)
}
