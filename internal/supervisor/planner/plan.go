package planner

import (
	"sort"

	"github.com/eagraf/shipmate/core/state/compose"
)

// NextSteps is the reconciliation entry point: given the observed current
// apps, the target apps and the runtime context, it returns the next batch of
// steps. An empty batch means the fixpoint is reached; a lone noop means
// progress is blocked but legal (e.g. downloads still in flight) and the
// caller should wait and re-invoke.
func NextSteps(currentApps, targetApps []compose.App, ctx Context) []Step {
	currentByID := make(map[int]compose.App, len(currentApps))
	for _, app := range currentApps {
		currentByID[app.AppID] = app
	}
	targetByID := make(map[int]compose.App, len(targetApps))
	for _, app := range targetApps {
		targetByID[app.AppID] = app
	}

	var steps []Step
	for _, target := range sortedApps(targetApps) {
		current, ok := currentByID[target.AppID]
		if !ok {
			current = compose.App{AppID: target.AppID, AppUUID: target.AppUUID}
		}
		steps = append(steps, planApp(current, target, ctx)...)
	}

	steps = append(steps, crossAppSteps(currentApps, targetByID, ctx)...)
	steps = dedupe(steps)

	// Image cleanup waits for quiescence: while other steps are pending, an
	// image that looks unreferenced may just be mid-swap.
	if len(steps) == 0 && !ctx.LocalMode {
		steps = removeImageSteps(currentApps, targetByID, ctx)
	}

	if len(steps) == 0 && len(ctx.Downloading) > 0 {
		return []Step{Noop{}}
	}
	return steps
}

// crossAppSteps orders work that no single app's diff can decide: teardown of
// apps that left the target, the global supervised bridge, and deferred
// volume/network removals.
func crossAppSteps(currentApps []compose.App, targetByID map[int]compose.App, ctx Context) []Step {
	var steps []Step

	steps = append(steps, ensureSupervisorNetwork(currentApps)...)

	for _, current := range sortedApps(currentApps) {
		if current.AppID == 0 {
			// App id 0 holds the supervisor's own objects; never torn down.
			continue
		}
		target, targeted := targetByID[current.AppID]
		if !targeted {
			if ctx.LocalMode {
				continue
			}
			steps = append(steps, removeAppSteps(current)...)
			continue
		}
		if ctx.LocalMode {
			continue
		}
		steps = append(steps, removeLeftoverSteps(current, target)...)
	}
	return steps
}

func ensureSupervisorNetwork(currentApps []compose.App) []Step {
	for _, app := range currentApps {
		if app.AppID != 0 {
			continue
		}
		if _, ok := app.Networks[compose.SupervisorNetworkName]; ok {
			return nil
		}
	}
	return []Step{CreateNetwork{Network: compose.SupervisorNetwork()}}
}

// removeAppSteps tears down an app that is no longer targeted: services
// first, then, on later rounds once they are gone, networks and volumes.
func removeAppSteps(current compose.App) []Step {
	var steps []Step
	for _, svc := range current.Services {
		steps = append(steps, teardown(svc))
	}
	if len(steps) > 0 {
		return steps
	}
	for _, name := range sortedKeys(current.Networks) {
		steps = append(steps, RemoveNetwork{Network: current.Networks[name]})
	}
	for _, name := range sortedKeys(current.Volumes) {
		steps = append(steps, RemoveVolume{Volume: current.Volumes[name]})
	}
	return steps
}

// removeLeftoverSteps drops volumes and networks a still-targeted app no
// longer declares, but only once no current-or-target service references
// them.
func removeLeftoverSteps(current, target compose.App) []Step {
	var steps []Step

	for _, name := range sortedKeys(current.Volumes) {
		if _, ok := target.Volumes[name]; ok {
			continue
		}
		if current.VolumeReferenced(name) || target.VolumeReferenced(name) {
			continue
		}
		steps = append(steps, RemoveVolume{Volume: current.Volumes[name]})
	}

	for _, name := range sortedKeys(current.Networks) {
		if _, ok := target.Networks[name]; ok {
			continue
		}
		if name == compose.DefaultNetworkName && target.HasServices() {
			// The synthesized default network stays as long as the app has
			// services.
			continue
		}
		if current.NetworkReferenced(name) || target.NetworkReferenced(name) {
			continue
		}
		steps = append(steps, RemoveNetwork{Network: current.Networks[name]})
	}
	return steps
}

// removeImageSteps reclaims downloaded images that no service in any target
// app, and no current container, references anymore. References are counted
// across apps.
func removeImageSteps(currentApps []compose.App, targetByID map[int]compose.App, ctx Context) []Step {
	referenced := func(img compose.Image) bool {
		check := func(svc compose.Service) bool {
			if img.DockerImageID != "" && img.DockerImageID == svc.Config.Image {
				return true
			}
			return compose.IsSameImage(img.Name, svc.Config.Image) ||
				compose.IsSameImage(img.Name, svc.ImageName)
		}
		for _, app := range targetByID {
			for _, svc := range app.Services {
				if check(svc) {
					return true
				}
			}
		}
		for _, app := range currentApps {
			for _, svc := range app.Services {
				if check(svc) {
					return true
				}
			}
		}
		return false
	}

	var steps []Step
	for _, img := range ctx.AvailableImages {
		if img.Status != compose.ImageDownloaded {
			continue
		}
		if referenced(img) {
			continue
		}
		steps = append(steps, RemoveImage{Image: img})
	}
	return steps
}

// dedupe drops steps that repeat an (action, resource) pair; the volume and
// service planners may both decide to kill the same service in one batch.
func dedupe(steps []Step) []Step {
	seen := make(map[string]bool, len(steps))
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		k := string(s.Action()) + "|" + s.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

func sortedApps(apps []compose.App) []compose.App {
	out := make([]compose.App, len(apps))
	copy(out, apps)
	sort.Slice(out, func(i, j int) bool { return out[i].AppID < out[j].AppID })
	return out
}
