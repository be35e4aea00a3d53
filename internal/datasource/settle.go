package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/marketbrief/internal/metrics"
	"github.com/seenimoa/marketbrief/pkg/models"
)

// task is one named unit of upstream work. run stores its own result.
type task struct {
	name string
	run  func(ctx context.Context) error
}

// settleAll runs every task concurrently and waits for all of them to
// finish. Errors and panics are contained per task: they are logged,
// counted and reported in the returned outcomes, which follow task order.
func settleAll(ctx context.Context, log zerolog.Logger, rec *metrics.Recorder, tasks []task) []models.SourceOutcome {
	outcomes := make([]models.SourceOutcome, len(tasks))

	// No shared cancellation: one failure must not cancel its siblings.
	var g errgroup.Group
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			outcomes[i] = runTask(ctx, log, rec, t)
			return nil // non-fatal
		})
	}
	_ = g.Wait()

	return outcomes
}

func runTask(ctx context.Context, log zerolog.Logger, rec *metrics.Recorder, t task) (out models.SourceOutcome) {
	start := time.Now()
	out.Source = t.name

	defer func() {
		out.Duration = time.Since(start)
		outcome := metrics.OutcomeOK

		if r := recover(); r != nil {
			out.OK = false
			out.Error = fmt.Sprintf("panic: %v", r)
			outcome = metrics.OutcomePanic
			log.Error().Str("source", t.name).Interface("panic", r).Dur("duration", out.Duration).Msg("source fetch panicked")
		} else if !out.OK {
			outcome = metrics.OutcomeError
			log.Warn().Str("source", t.name).Str("err", out.Error).Dur("duration", out.Duration).Msg("source fetch failed")
		} else {
			log.Debug().Str("source", t.name).Dur("duration", out.Duration).Msg("source fetched")
		}

		rec.RecordFetch(t.name, outcome, out.Duration)
	}()

	if err := t.run(ctx); err != nil {
		out.Error = err.Error()
		return out
	}
	out.OK = true
	return out
}
