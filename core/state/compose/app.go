package compose

import "sort"

// App is the unit of deployment: the set of services, networks and volumes
// under one app id. IsTarget discriminates target-state apps from
// current-state apps.
type App struct {
	AppID    int                `json:"app_id"`
	AppUUID  string             `json:"app_uuid,omitempty"`
	Services []Service          `json:"services"`
	Networks map[string]Network `json:"networks,omitempty"`
	Volumes  map[string]Volume  `json:"volumes,omitempty"`
	IsTarget bool               `json:"is_target,omitempty"`
}

// ServicesByName groups the app's services by service name. Current state can
// briefly hold two releases of the same service during a hand-over.
func (a App) ServicesByName() map[string][]Service {
	out := make(map[string][]Service, len(a.Services))
	for _, svc := range a.Services {
		out[svc.ServiceName] = append(out[svc.ServiceName], svc)
	}
	return out
}

// ServiceNames returns the app's service names, sorted.
func (a App) ServiceNames() []string {
	seen := make(map[string]bool, len(a.Services))
	names := make([]string, 0, len(a.Services))
	for _, svc := range a.Services {
		if !seen[svc.ServiceName] {
			seen[svc.ServiceName] = true
			names = append(names, svc.ServiceName)
		}
	}
	sort.Strings(names)
	return names
}

// HasServices reports whether the app declares at least one service.
func (a App) HasServices() bool {
	return len(a.Services) > 0
}

// VolumeReferenced reports whether any of the app's services mounts the named
// volume.
func (a App) VolumeReferenced(name string) bool {
	for _, svc := range a.Services {
		if svc.ReferencesVolume(name) {
			return true
		}
	}
	return false
}

// NetworkReferenced reports whether any of the app's services joins the named
// network.
func (a App) NetworkReferenced(name string) bool {
	for _, svc := range a.Services {
		if svc.ReferencesNetwork(name) {
			return true
		}
	}
	return false
}
