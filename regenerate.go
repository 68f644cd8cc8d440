package feedsite

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const regenerateTimeout = 2 * time.Minute

func (a *App) startRegeneration(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(a.Config.RegenerateInterval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			_ = a.Regenerate(ctx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule regeneration: %w", err)
	}

	a.scheduler = scheduler
	scheduler.Start()
	a.Logger.Info("scheduled artifact regeneration", "every", a.Config.RegenerateInterval)
	return nil
}

// Regenerate drops cached posts and rewrites the sitemap, HTML sitemap and
// robots.txt under the public directory. Failures are logged and returned.
func (a *App) Regenerate(ctx context.Context) error {
	taskCtx, cancel := context.WithTimeout(ctx, regenerateTimeout)
	defer cancel()

	a.Cache.Invalidate()
	if err := a.Generator.Generate(taskCtx); err != nil {
		a.Logger.Error("artifact regeneration failed", "error", err)
		return err
	}
	return nil
}
