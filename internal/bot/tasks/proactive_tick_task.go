package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/hirokit/sakurabot/internal/database"
	"github.com/hirokit/sakurabot/internal/proactive"
)

// newProactiveTickTask builds the hourly lottery tick. A rejected lottery is
// a benign skip; an accepted one submits exactly one delayed task to the
// queue. Enqueue failure is the one failure that propagates, since it means
// the proactive message will never fire.
func newProactiveTickTask(deps TaskDeps) ScheduledTaskFunc {
	policy := proactive.Policy{
		QuietFrom:     deps.Config.LotteryQuietFrom,
		QuietThrough:  deps.Config.LotteryQuietThrough,
		HighHours:     deps.Config.LotteryHighHours,
		HighThreshold: deps.Config.LotteryHighThreshold,
		BaseThreshold: deps.Config.LotteryBaseThreshold,
	}
	log := deps.Logger.With("task", "proactive_tick")

	return func(ctx context.Context) error {
		now := deps.Now().In(deps.Config.Location())
		decision := policy.Decide(now, deps.Draw())

		if !decision.Accepted {
			log.InfoContext(ctx, "Lottery declined, skipping tick",
				"hour", decision.Hour, "draw", decision.Draw)
			return nil
		}

		delay := deps.Delay()
		if err := deps.Queue.EnqueueSend(ctx, delay); err != nil {
			if saveErr := deps.Events.SaveEvent(ctx, database.EventEnqueueFailed, err.Error()); saveErr != nil {
				log.ErrorContext(ctx, "Failed to record enqueue failure", "error", saveErr)
			}
			return fmt.Errorf("failed to enqueue proactive send: %w", err)
		}

		detail := fmt.Sprintf("hour=%d draw=%d delay=%s", decision.Hour, decision.Draw, delay)
		if err := deps.Events.SaveEvent(ctx, database.EventProactiveEnqueued, detail); err != nil {
			log.ErrorContext(ctx, "Failed to record enqueue", "error", err)
		}

		log.InfoContext(ctx, "Lottery accepted, proactive send enqueued",
			"hour", decision.Hour, "draw", decision.Draw, "delay", delay.Truncate(time.Second))
		return nil
	}
}
