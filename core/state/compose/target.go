package compose

import (
	"encoding/json"
	"fmt"
	"sort"
)

// targetDoc is the wire form of the device's full target state, keyed by app
// id.
type targetDoc struct {
	Apps map[string]targetApp `json:"apps"`
}

type targetApp struct {
	UUID      string                   `json:"uuid,omitempty"`
	ReleaseID int                      `json:"release_id,omitempty"`
	Services  map[string]targetService `json:"services"`
	Networks  map[string]NetworkConfig `json:"networks,omitempty"`
	Volumes   map[string]VolumeConfig  `json:"volumes,omitempty"`
}

type targetService struct {
	ServiceID int `json:"service_id"`
	ImageID   int `json:"image_id"`
	ReleaseID int `json:"release_id,omitempty"`
	ServiceConfig
}

// ParseTarget validates and converts a target-state document into target
// apps, sorted by app id. Dependency cycles and dangling depends_on
// references are rejected here so the planner never has to deal with them.
func ParseTarget(doc []byte) ([]App, error) {
	if err := ValidateTarget(doc); err != nil {
		return nil, err
	}

	var td targetDoc
	if err := json.Unmarshal(doc, &td); err != nil {
		return nil, fmt.Errorf("unmarshal target state: %w", err)
	}

	apps := make([]App, 0, len(td.Apps))
	for rawID, ta := range td.Apps {
		appID, err := ParseAppID(rawID)
		if err != nil {
			return nil, err
		}

		app := App{
			AppID:    appID,
			AppUUID:  ta.UUID,
			Networks: make(map[string]Network, len(ta.Networks)),
			Volumes:  make(map[string]Volume, len(ta.Volumes)),
			IsTarget: true,
		}

		names := make([]string, 0, len(ta.Services))
		for name := range ta.Services {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			ts := ta.Services[name]
			releaseID := ts.ReleaseID
			if releaseID == 0 {
				releaseID = ta.ReleaseID
			}
			svc, err := ServiceFromComposeObject(appID, ta.UUID, name, ts.ServiceConfig, ts.ServiceID, releaseID, ts.ImageID)
			if err != nil {
				return nil, err
			}
			app.Services = append(app.Services, svc)
		}

		for name, cfg := range ta.Networks {
			network, err := NetworkFromComposeObject(appID, ta.UUID, name, cfg)
			if err != nil {
				return nil, err
			}
			app.Networks[name] = network
		}
		for name, cfg := range ta.Volumes {
			app.Volumes[name] = VolumeFromComposeObject(appID, ta.UUID, name, cfg)
		}

		if err := checkDependencies(app); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].AppID < apps[j].AppID })
	return apps, nil
}

// checkDependencies verifies that every depends_on reference resolves within
// the app and that the dependency graph is acyclic (Kahn's algorithm).
func checkDependencies(app App) error {
	indegree := make(map[string]int, len(app.Services))
	dependents := make(map[string][]string)

	for _, svc := range app.Services {
		if _, ok := indegree[svc.ServiceName]; !ok {
			indegree[svc.ServiceName] = 0
		}
		for _, dep := range svc.Config.DependsOn {
			found := false
			for _, other := range app.Services {
				if other.ServiceName == dep {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: service %q depends on unknown service %q", ErrInvalidServiceConfiguration, svc.ServiceName, dep)
			}
			indegree[svc.ServiceName]++
			dependents[dep] = append(dependents[dep], svc.ServiceName)
		}
	}

	queue := make([]string, 0, len(indegree))
	for name, deg := range indegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}

	resolved := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		resolved++
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if resolved != len(indegree) {
		return fmt.Errorf("%w: app %d", ErrDependencyCycle, app.AppID)
	}
	return nil
}
