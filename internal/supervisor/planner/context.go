package planner

import "github.com/eagraf/shipmate/core/state/compose"

// Context is the runtime view the planner consults beside current and target
// state. It is a snapshot: the planner never mutates it, and the outer loop
// rebuilds it for every invocation.
type Context struct {
	// LocalMode disables cloud-driven removals (apps, images) while a device
	// is under local development.
	LocalMode bool

	// AvailableImages is the local image inventory.
	AvailableImages []compose.Image

	// Downloading holds the image ids whose fetch is currently in flight.
	Downloading map[int]bool

	// ContainerStarted records, per container id, that a start was issued and
	// the container has not been observed to die since. The executor sets
	// entries, the engine event mirror clears them.
	ContainerStarted map[string]bool

	// HandoverExpired records, per container id, that the container was
	// signaled to hand over longer ago than its handover timeout.
	HandoverExpired map[string]bool
}

// imageAvailable reports whether the service's image is already on disk,
// matching by content digest or by normalized registry reference.
func (c Context) imageAvailable(svc compose.Service) bool {
	want := svc.Config.Image
	if want == "" {
		want = svc.ImageName
	}
	for _, img := range c.AvailableImages {
		if img.DockerImageID != "" && img.DockerImageID == want {
			return true
		}
		if compose.IsSameImage(img.Name, want) {
			return true
		}
	}
	return false
}

// imageDownloading reports whether the service's image fetch is in flight.
func (c Context) imageDownloading(svc compose.Service) bool {
	return c.Downloading[svc.ImageID]
}

// containerStarted reports whether a start was already issued for the
// container and not yet invalidated by an engine event.
func (c Context) containerStarted(containerID string) bool {
	return containerID != "" && c.ContainerStarted[containerID]
}
