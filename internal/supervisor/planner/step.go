// Package planner computes the next batch of composition steps that move the
// engine's current state toward the target state. It is pure: no I/O, no
// locks, deterministic for identical inputs. Steps that depend on the effect
// of earlier steps are simply not emitted until that effect shows up in
// current state on a later invocation.
package planner

import (
	"fmt"
	"time"

	"github.com/eagraf/shipmate/core/state/compose"
)

// Action names the kind of a composition step.
type Action string

const (
	ActionFetch          Action = "fetch"
	ActionRemoveImage    Action = "removeImage"
	ActionCreateNetwork  Action = "createNetwork"
	ActionRemoveNetwork  Action = "removeNetwork"
	ActionCreateVolume   Action = "createVolume"
	ActionRemoveVolume   Action = "removeVolume"
	ActionStart          Action = "start"
	ActionStop           Action = "stop"
	ActionKill           Action = "kill"
	ActionRemove         Action = "remove"
	ActionUpdateMetadata Action = "updateMetadata"
	ActionHandover       Action = "handover"
	ActionRestart        Action = "restart"
	ActionNoop           Action = "noop"
)

// Step is one atomic, executable mutation against the container engine. The
// concrete types form a closed sum: each variant carries exactly the payload
// its executor needs.
type Step interface {
	Action() Action
	// key identifies the resource a step touches; steps with equal keys must
	// be serialized by the executor, and steps with equal action and key are
	// deduplicated within a batch.
	key() string
}

// Fetch pulls the target image for a service.
type Fetch struct {
	Image compose.Image
}

// RemoveImage deletes a locally held image nothing references anymore.
type RemoveImage struct {
	Image compose.Image
}

// CreateNetwork creates a target network on the engine.
type CreateNetwork struct {
	Network compose.Network
}

// RemoveNetwork deletes a current network from the engine.
type RemoveNetwork struct {
	Network compose.Network
}

// CreateVolume creates a target volume on the engine.
type CreateVolume struct {
	Volume compose.Volume
}

// RemoveVolume deletes a current volume from the engine.
type RemoveVolume struct {
	Volume compose.Volume
}

// Start creates (if needed) and starts the container for a target service.
type Start struct {
	Target compose.Service
}

// Stop gracefully stops a current service's container without removing it.
type Stop struct {
	Current compose.Service
}

// Kill stops and removes a current service's container.
type Kill struct {
	Current compose.Service
}

// Remove purges a dead container.
type Remove struct {
	Current compose.Service
}

// UpdateMetadata rewrites release metadata on a container whose config is
// otherwise unchanged.
type UpdateMetadata struct {
	Current compose.Service
	Target  compose.Service
}

// Handover signals a running container that its replacement is up. Timeout
// bounds how long the old container may linger before it is killed.
type Handover struct {
	Current compose.Service
	Target  compose.Service
	Timeout time.Duration
}

// Restart restarts a current service's container in place.
type Restart struct {
	Current compose.Service
}

// Noop signals that progress is blocked but legal: the caller should wait and
// re-invoke.
type Noop struct{}

func (Fetch) Action() Action          { return ActionFetch }
func (RemoveImage) Action() Action    { return ActionRemoveImage }
func (CreateNetwork) Action() Action  { return ActionCreateNetwork }
func (RemoveNetwork) Action() Action  { return ActionRemoveNetwork }
func (CreateVolume) Action() Action   { return ActionCreateVolume }
func (RemoveVolume) Action() Action   { return ActionRemoveVolume }
func (Start) Action() Action          { return ActionStart }
func (Stop) Action() Action           { return ActionStop }
func (Kill) Action() Action           { return ActionKill }
func (Remove) Action() Action         { return ActionRemove }
func (UpdateMetadata) Action() Action { return ActionUpdateMetadata }
func (Handover) Action() Action       { return ActionHandover }
func (Restart) Action() Action        { return ActionRestart }
func (Noop) Action() Action           { return ActionNoop }

func serviceKey(svc compose.Service) string {
	return fmt.Sprintf("service/%d/%s", svc.AppID, svc.ServiceName)
}

func (s Fetch) key() string          { return fmt.Sprintf("image/%d/%s", s.Image.ImageID, s.Image.Name) }
func (s RemoveImage) key() string    { return fmt.Sprintf("image/%d/%s", s.Image.ImageID, s.Image.Name) }
func (s CreateNetwork) key() string  { return "network/" + s.Network.EngineName() }
func (s RemoveNetwork) key() string  { return "network/" + s.Network.EngineName() }
func (s CreateVolume) key() string   { return "volume/" + s.Volume.EngineName() }
func (s RemoveVolume) key() string   { return "volume/" + s.Volume.EngineName() }
func (s Start) key() string          { return serviceKey(s.Target) }
func (s Stop) key() string           { return serviceKey(s.Current) }
func (s Kill) key() string           { return serviceKey(s.Current) }
func (s Remove) key() string         { return serviceKey(s.Current) }
func (s UpdateMetadata) key() string { return serviceKey(s.Current) }
func (s Handover) key() string       { return serviceKey(s.Current) }
func (s Restart) key() string        { return serviceKey(s.Current) }
func (Noop) key() string             { return "noop" }

// ResourceKey exposes a step's serialization key to the executor: steps with
// the same key touch the same engine resource and must not run in parallel.
func ResourceKey(s Step) string {
	return s.key()
}
