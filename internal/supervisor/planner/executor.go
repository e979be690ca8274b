package planner

import "context"

// Applier is the contract between the planner and the external step runner:
// it executes one batch. Steps with distinct resource keys may run in
// parallel; steps sharing a key must be serialized. The planner never calls
// Apply itself.
type Applier interface {
	Apply(ctx context.Context, steps []Step) error
}

// StartReporter is the feedback channel the runner uses to influence later
// plans: a successful start is recorded so the planner stops re-emitting it,
// and the record is dropped once the engine reports the container gone.
type StartReporter interface {
	MarkStarted(containerID string)
	ClearStarted(containerID string)
}
