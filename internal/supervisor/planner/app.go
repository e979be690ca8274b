package planner

import (
	"sort"

	"github.com/eagraf/shipmate/core/state/compose"
	"github.com/rs/zerolog/log"
)

// appPlan diffs one app's current state against its target state.
type appPlan struct {
	current compose.App
	target  compose.App
	ctx     Context
}

// planApp returns the steps for a single app, volumes first, then networks,
// then services. Within a batch every step is independently safe; ordering
// across rounds comes from preconditions that only pass once earlier steps'
// effects are visible in current state.
func planApp(current, target compose.App, ctx Context) []Step {
	p := appPlan{current: current, target: target, ctx: ctx}

	var steps []Step
	steps = append(steps, p.volumeSteps()...)
	steps = append(steps, p.networkSteps()...)
	steps = append(steps, p.serviceSteps()...)
	return steps
}

func (p appPlan) volumeSteps() []Step {
	var steps []Step
	for _, name := range sortedKeys(p.target.Volumes) {
		tv := p.target.Volumes[name]
		cv, exists := p.current.Volumes[name]
		if !exists {
			steps = append(steps, CreateVolume{Volume: tv})
			continue
		}
		if cv.IsEqualConfig(tv) {
			continue
		}
		// Recreation: dependent services go first; the volume is removed only
		// once nothing references it, and recreated on a later round. Remove
		// and create for the same volume never share a batch.
		if kills := p.teardownReferencing(func(svc compose.Service) bool {
			return svc.ReferencesVolume(name)
		}); len(kills) > 0 {
			steps = append(steps, kills...)
			continue
		}
		steps = append(steps, RemoveVolume{Volume: cv})
	}
	// Volumes present only in current state are handled by the cross-app
	// planner, which waits until nothing references them.
	return steps
}

func (p appPlan) networkSteps() []Step {
	var steps []Step
	targetNetworks := p.effectiveTargetNetworks()
	for _, name := range sortedKeys(targetNetworks) {
		tn := targetNetworks[name]
		cn, exists := p.current.Networks[name]
		if !exists {
			steps = append(steps, CreateNetwork{Network: tn})
			continue
		}
		if cn.IsEqualConfig(tn) {
			continue
		}
		if kills := p.teardownReferencing(func(svc compose.Service) bool {
			return svc.ReferencesNetwork(name)
		}); len(kills) > 0 {
			steps = append(steps, kills...)
			continue
		}
		steps = append(steps, RemoveNetwork{Network: cn})
	}
	return steps
}

// effectiveTargetNetworks is the target's network map with the per-app
// default network synthesized whenever the app has services but declares no
// default of its own.
func (p appPlan) effectiveTargetNetworks() map[string]compose.Network {
	networks := make(map[string]compose.Network, len(p.target.Networks)+1)
	for name, n := range p.target.Networks {
		networks[name] = n
	}
	if p.target.HasServices() {
		if _, ok := networks[compose.DefaultNetworkName]; !ok {
			networks[compose.DefaultNetworkName] = compose.DefaultNetwork(p.target.AppID, p.target.AppUUID)
		}
	}
	return networks
}

// teardownReferencing emits teardown steps for every current service matched
// by ref. An empty result means nothing references the resource anymore.
func (p appPlan) teardownReferencing(ref func(compose.Service) bool) []Step {
	var steps []Step
	for _, svc := range p.current.Services {
		if ref(svc) {
			steps = append(steps, teardown(svc))
		}
	}
	return steps
}

func (p appPlan) serviceSteps() []Step {
	var steps []Step

	currentByName := p.current.ServicesByName()
	targetByName := make(map[string]compose.Service, len(p.target.Services))
	for _, svc := range p.target.Services {
		targetByName[svc.ServiceName] = svc
	}

	names := make(map[string]bool, len(currentByName)+len(targetByName))
	for name := range currentByName {
		names[name] = true
	}
	for name := range targetByName {
		names[name] = true
	}

	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	for _, name := range ordered {
		currents := currentByName[name]
		tgt, hasTarget := targetByName[name]

		switch {
		case !hasTarget:
			for _, cur := range currents {
				steps = append(steps, teardown(cur))
			}
		case len(currents) == 0:
			if step := p.startSteps(tgt); step != nil {
				steps = append(steps, step)
			}
		default:
			steps = append(steps, p.updateSteps(currents, tgt)...)
		}
	}
	return steps
}

// startSteps handles a service present only in target state. Returns nil when
// the service must wait for another step's effect to appear in current state.
func (p appPlan) startSteps(tgt compose.Service) Step {
	if !p.ctx.imageAvailable(tgt) {
		if p.ctx.imageDownloading(tgt) {
			return Noop{}
		}
		img, err := tgt.Image()
		if err != nil {
			// Rejected at target ingest; skip rather than fail the batch.
			log.Error().Err(err).Str("service", tgt.ServiceName).Msg("cannot synthesize image descriptor")
			return nil
		}
		return Fetch{Image: img}
	}

	// Referenced volumes and networks must exist, in their target shape,
	// before the container can be created; a volume mid-recreation does not
	// count. The create steps are emitted elsewhere in this batch or an
	// earlier one.
	for _, name := range sortedKeys(p.target.Volumes) {
		if tgt.ReferencesVolume(name) {
			cv, ok := p.current.Volumes[name]
			if !ok || !cv.IsEqualConfig(p.target.Volumes[name]) {
				return nil
			}
		}
	}
	targetNetworks := p.effectiveTargetNetworks()
	for _, name := range sortedKeys(targetNetworks) {
		if tgt.ReferencesNetwork(name) {
			cn, ok := p.current.Networks[name]
			if !ok || !cn.IsEqualConfig(targetNetworks[name]) {
				return nil
			}
		}
	}

	currentByName := p.current.ServicesByName()
	for _, dep := range tgt.Config.DependsOn {
		if !p.dependencyMet(currentByName[dep]) {
			return Noop{}
		}
	}

	return Start{Target: tgt}
}

// dependencyMet reports whether some release of a depends_on sibling is
// running and its start has been acknowledged.
func (p appPlan) dependencyMet(deps []compose.Service) bool {
	for _, dep := range deps {
		if dep.Status == compose.StatusRunning && p.ctx.containerStarted(dep.ContainerID) {
			return true
		}
	}
	return false
}

// updateSteps handles a service present in both current and target state.
func (p appPlan) updateSteps(currents []compose.Service, tgt compose.Service) []Step {
	// Two releases of the same service coexist only mid-hand-over.
	if len(currents) > 1 {
		return p.handoverSteps(currents, tgt)
	}
	cur := currents[0]

	if cur.Status == compose.StatusDead {
		return []Step{Remove{Current: cur}}
	}

	if cur.IsEqualExceptForRunningAndRelease(tgt) {
		if !cur.SameRelease(tgt) {
			return []Step{UpdateMetadata{Current: cur, Target: tgt}}
		}
		return p.runStateSteps(cur, tgt)
	}

	if diff, err := compose.DiffConfigs(cur, tgt); err == nil {
		log.Debug().Int("appId", tgt.AppID).Str("service", tgt.ServiceName).
			RawJSON("diff", diff).Msg("material config change")
	}

	switch tgt.UpdateStrategy() {
	case compose.StrategyKillThenDownload:
		return []Step{teardown(cur)}
	case compose.StrategyDeleteThenDownload:
		steps := []Step{teardown(cur)}
		if img, err := cur.Image(); err == nil {
			steps = append(steps, RemoveImage{Image: img})
		}
		return steps
	case compose.StrategyHandover:
		if !p.ctx.imageAvailable(tgt) {
			if p.ctx.imageDownloading(tgt) {
				return []Step{Noop{}}
			}
			img, err := tgt.Image()
			if err != nil {
				return nil
			}
			return []Step{Fetch{Image: img}}
		}
		// Start the replacement beside the old container; the overlap is
		// resolved by handoverSteps once both releases are observed.
		return []Step{Start{Target: tgt}}
	default: // download-then-kill
		if !p.ctx.imageAvailable(tgt) {
			if p.ctx.imageDownloading(tgt) {
				return []Step{Noop{}}
			}
			img, err := tgt.Image()
			if err != nil {
				return nil
			}
			return []Step{Fetch{Image: img}}
		}
		return []Step{teardown(cur)}
	}
}

// runStateSteps reconciles only the running flag of a config-identical
// service.
func (p appPlan) runStateSteps(cur, tgt compose.Service) []Step {
	running := cur.Status == compose.StatusRunning
	switch {
	case tgt.Config.Running && !running:
		if cur.Status == compose.StatusStopping {
			return []Step{Noop{}}
		}
		if p.ctx.containerStarted(cur.ContainerID) {
			// Start already issued; wait for the engine.
			return nil
		}
		next := tgt
		next.ContainerID = cur.ContainerID
		return []Step{Start{Target: next}}
	case !tgt.Config.Running && running:
		return []Step{Stop{Current: cur}}
	default:
		return nil
	}
}

// handoverSteps resolves the overlap window of a hand-over update: signal the
// old container once the new one is up, wait out the timeout, then kill.
func (p appPlan) handoverSteps(currents []compose.Service, tgt compose.Service) []Step {
	var old, replacement *compose.Service
	for i := range currents {
		if currents[i].ReleaseID == tgt.ReleaseID {
			replacement = &currents[i]
		} else {
			old = &currents[i]
		}
	}
	if old == nil {
		// Duplicate observation of the same release; nothing to do here.
		return nil
	}
	if replacement == nil {
		// The overlap partner is gone; tear the stale release down.
		return []Step{teardown(*old)}
	}

	switch old.Status {
	case compose.StatusHandover:
		if p.ctx.HandoverExpired[old.ContainerID] {
			return []Step{Kill{Current: *old}}
		}
		return []Step{Noop{}}
	case compose.StatusRunning:
		return []Step{Handover{Current: *old, Target: tgt, Timeout: tgt.HandoverTimeout()}}
	default:
		return []Step{teardown(*old)}
	}
}

// teardown picks the right step to dispose of a current service.
func teardown(cur compose.Service) Step {
	switch cur.Status {
	case compose.StatusStopping:
		return Noop{}
	case compose.StatusDead:
		return Remove{Current: cur}
	default:
		return Kill{Current: cur}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
