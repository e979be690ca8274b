// Package loop drives reconciliation: observe, plan, apply, repeat. The
// planner itself stays pure; everything stateful (timing, the start memo,
// handover deadlines) lives here.
package loop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eagraf/shipmate/core/state/compose"
	"github.com/eagraf/shipmate/internal/supervisor/planner"
)

// CurrentStateProvider is the engine-backed view of what actually exists.
type CurrentStateProvider interface {
	CurrentApps(ctx context.Context) ([]compose.App, error)
	AvailableImages(ctx context.Context) ([]compose.Image, error)
}

// TargetProvider returns the persisted target composition.
type TargetProvider interface {
	TargetApps() ([]compose.App, error)
}

// DownloadTracker reports which image fetches are in flight.
type DownloadTracker interface {
	Downloading() map[int]bool
}

// Config configures the reconciliation loop.
type Config struct {
	// Interval is how often to reconcile. Defaults to 10s.
	Interval time.Duration
	// LocalMode disables cloud-driven removals.
	LocalMode bool
}

// Loop runs the reconciliation cycle.
type Loop struct {
	state     CurrentStateProvider
	target    TargetProvider
	downloads DownloadTracker
	applier   planner.Applier
	tracker   *Tracker
	cfg       Config

	mu       sync.Mutex
	lastPlan []planner.Step
}

func New(state CurrentStateProvider, target TargetProvider, downloads DownloadTracker, applier planner.Applier, tracker *Tracker, cfg Config) *Loop {
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Second
	}
	return &Loop{
		state:     state,
		target:    target,
		downloads: downloads,
		applier:   applier,
		tracker:   tracker,
		cfg:       cfg,
	}
}

// Run starts the reconciliation loop. Blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", l.cfg.Interval).Bool("localMode", l.cfg.LocalMode).Msg("reconciliation loop starting")

	// A failed pass delays the next one by an extra wait that doubles with
	// each consecutive failure, from one interval up to five minutes.
	var backoff time.Duration
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reconciliation loop stopping")
			return nil
		case <-ticker.C:
			if err := l.Reconcile(ctx); err != nil {
				backoff *= 2
				if backoff == 0 {
					backoff = l.cfg.Interval
				}
				if backoff > 5*time.Minute {
					backoff = 5 * time.Minute
				}
				log.Error().Err(err).Dur("backoff", backoff).Msg("reconciliation pass failed")
				select {
				case <-ctx.Done():
				case <-time.After(backoff):
				}
				continue
			}
			backoff = 0
		}
	}
}

// Reconcile runs a single observe-plan-apply pass.
func (l *Loop) Reconcile(ctx context.Context) error {
	current, err := l.state.CurrentApps(ctx)
	if err != nil {
		return fmt.Errorf("observe current state: %w", err)
	}
	images, err := l.state.AvailableImages(ctx)
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}
	target, err := l.target.TargetApps()
	if err != nil {
		return fmt.Errorf("load target state: %w", err)
	}

	current = l.markHandovers(current)

	steps := planner.NextSteps(current, target, planner.Context{
		LocalMode:        l.cfg.LocalMode,
		AvailableImages:  images,
		Downloading:      l.downloads.Downloading(),
		ContainerStarted: l.tracker.StartedSnapshot(),
		HandoverExpired:  l.tracker.ExpiredSnapshot(),
	})

	l.mu.Lock()
	l.lastPlan = steps
	l.mu.Unlock()

	if len(steps) == 0 {
		log.Debug().Msg("state converged")
		return nil
	}
	log.Info().Int("steps", len(steps)).Msg("applying composition steps")
	return l.applier.Apply(ctx, steps)
}

// markHandovers overlays the tracker's handover state onto observed services:
// a container that has been signaled shows up as Handover instead of Running.
func (l *Loop) markHandovers(apps []compose.App) []compose.App {
	for ai := range apps {
		for si := range apps[ai].Services {
			svc := &apps[ai].Services[si]
			if svc.Status == compose.StatusRunning && l.tracker.InHandover(svc.ContainerID) {
				svc.Status = compose.StatusHandover
			}
		}
	}
	return apps
}

// LastPlan returns the most recent batch for the device API.
func (l *Loop) LastPlan() []planner.Step {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]planner.Step, len(l.lastPlan))
	copy(out, l.lastPlan)
	return out
}
