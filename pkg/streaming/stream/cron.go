package stream

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	mxerrors "github.com/vnykmshr/muxflow/pkg/common/errors"
)

// Schedule creates a Stream that emits the activation times of a cron
// expression as they occur. The expression uses the standard five-field
// cron format and the usual descriptors:
//
//	"30 14 * * 1-5"  - 2:30 PM on weekdays
//	"@hourly"        - every hour
//	"@every 10s"     - every 10 seconds
//
// The stream never ends on its own; it stops when closed. It returns a
// ValidationError wrapping ErrInvalidConfiguration for an unparseable
// expression.
func Schedule(expr string) (Stream[time.Time], error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, mxerrors.NewValidationError("stream", "cron", expr, err.Error()).
			WithHint("use a standard cron expression or a descriptor like @hourly or @every 10s")
	}
	return &cronStream{sched: sched, done: make(chan struct{})}, nil
}

type cronStream struct {
	sched     cron.Schedule
	done      chan struct{}
	closeOnce sync.Once
}

func (s *cronStream) Next(ctx context.Context) (time.Time, bool, error) {
	select {
	case <-s.done:
		return time.Time{}, false, nil
	default:
	}

	next := s.sched.Next(time.Now())
	if next.IsZero() {
		// The schedule has no future activations.
		return time.Time{}, false, nil
	}

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	select {
	case <-timer.C:
		return next, true, nil
	case <-s.done:
		return time.Time{}, false, nil
	case <-ctx.Done():
		return time.Time{}, false, ctx.Err()
	}
}

func (s *cronStream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}
