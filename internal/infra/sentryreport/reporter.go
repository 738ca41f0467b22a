// Package sentryreport forwards failed import jobs to Sentry. With no
// DSN configured the reporter is a no-op so local runs stay quiet.
package sentryreport

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

type Reporter struct {
	enabled bool
}

func New(dsn, environment, release string) (*Reporter, error) {
	if dsn == "" {
		return &Reporter{}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, err
	}
	return &Reporter{enabled: true}, nil
}

var _ ports.ErrorReporter = (*Reporter)(nil)

func (r *Reporter) CaptureError(err error, tags map[string]string) {
	if !r.enabled || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

func (r *Reporter) Flush(timeout time.Duration) {
	if !r.enabled {
		return
	}
	sentry.Flush(timeout)
}
