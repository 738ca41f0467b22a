package ports

import "time"

// ErrorReporter forwards job failures to the error-tracking service.
type ErrorReporter interface {
	CaptureError(err error, tags map[string]string)
	Flush(timeout time.Duration)
}
