package engine

import (
	"context"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/rs/zerolog/log"

	"github.com/eagraf/shipmate/core/state/compose"
	"github.com/eagraf/shipmate/internal/supervisor/planner"
)

// Mirror subscribes to engine container events and keeps the start memo
// honest: a container that dies or disappears has its entry cleared, so the
// planner will ask for a start again.
type Mirror struct {
	docker   Docker
	reporter planner.StartReporter
}

func NewMirror(docker Docker, reporter planner.StartReporter) *Mirror {
	return &Mirror{docker: docker, reporter: reporter}
}

// Run blocks until ctx is cancelled, resubscribing after stream errors.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		if err := m.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Err(err).Msg("engine event stream broke, resubscribing")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func (m *Mirror) listen(ctx context.Context) error {
	msgs, errs := m.docker.Events(ctx, types.EventsOptions{
		Filters: filters.NewArgs(
			filters.Arg("type", "container"),
			filters.Arg("label", compose.LabelSupervised+"=true"),
		),
	})
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			return err
		case msg := <-msgs:
			switch msg.Action {
			case "die", "destroy", "oom":
				log.Debug().Str("container", msg.Actor.ID).Str("event", string(msg.Action)).Msg("container gone")
				m.reporter.ClearStarted(msg.Actor.ID)
			}
		}
	}
}
