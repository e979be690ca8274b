package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/volume"
	"github.com/rs/zerolog/log"

	"github.com/eagraf/shipmate/core/state/compose"
)

// StateReader derives the supervisor's view of current state from the engine.
type StateReader struct {
	docker Docker
}

func NewStateReader(docker Docker) *StateReader {
	return &StateReader{docker: docker}
}

func supervisedFilter() filters.Args {
	return filters.NewArgs(filters.Arg("label", compose.LabelSupervised+"=true"))
}

// CurrentApps lists every supervised container, network and volume and groups
// them into current-state apps. Objects whose labels or names fail to parse
// are logged and skipped; one broken object must not blind the whole view.
func (r *StateReader) CurrentApps(ctx context.Context) ([]compose.App, error) {
	apps := make(map[int]*compose.App)
	appFor := func(appID int, appUUID string) *compose.App {
		app, ok := apps[appID]
		if !ok {
			app = &compose.App{
				AppID:    appID,
				Networks: make(map[string]compose.Network),
				Volumes:  make(map[string]compose.Volume),
			}
			apps[appID] = app
		}
		if app.AppUUID == "" {
			app.AppUUID = appUUID
		}
		return app
	}

	containers, err := r.docker.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: supervisedFilter(),
	})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	for _, ctr := range containers {
		inspect, err := r.docker.ContainerInspect(ctx, ctr.ID)
		if err != nil {
			log.Warn().Err(err).Str("container", ctr.ID).Msg("inspect failed, skipping")
			continue
		}
		svc, err := compose.ServiceFromDockerContainer(inspect)
		if err != nil {
			log.Warn().Err(err).Str("container", ctr.ID).Msg("not a valid supervised container, skipping")
			continue
		}
		app := appFor(svc.AppID, svc.AppUUID)
		app.Services = append(app.Services, svc)
	}

	networks, err := r.docker.NetworkList(ctx, types.NetworkListOptions{Filters: supervisedFilter()})
	if err != nil {
		return nil, fmt.Errorf("list networks: %w", err)
	}
	for _, res := range networks {
		n, err := compose.NetworkFromDockerNetwork(res)
		if err != nil {
			log.Warn().Err(err).Str("network", res.Name).Msg("not a valid supervised network, skipping")
			continue
		}
		app := appFor(n.AppID, res.Labels[compose.LabelAppUUID])
		app.Networks[n.Name] = n
	}

	volumes, err := r.docker.VolumeList(ctx, volume.ListOptions{Filters: supervisedFilter()})
	if err != nil {
		return nil, fmt.Errorf("list volumes: %w", err)
	}
	for _, res := range volumes.Volumes {
		if res == nil {
			continue
		}
		v, err := compose.VolumeFromDockerVolume(*res)
		if err != nil {
			log.Warn().Err(err).Str("volume", res.Name).Msg("not a valid supervised volume, skipping")
			continue
		}
		app := appFor(v.AppID, res.Labels[compose.LabelAppUUID])
		app.Volumes[v.Name] = v
	}

	out := make([]compose.App, 0, len(apps))
	for _, app := range apps {
		sort.Slice(app.Services, func(i, j int) bool {
			if app.Services[i].ServiceName != app.Services[j].ServiceName {
				return app.Services[i].ServiceName < app.Services[j].ServiceName
			}
			return app.Services[i].ReleaseID < app.Services[j].ReleaseID
		})
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppID < out[j].AppID })
	return out, nil
}

// AvailableImages returns the local image inventory.
func (r *StateReader) AvailableImages(ctx context.Context) ([]compose.Image, error) {
	summaries, err := r.docker.ImageList(ctx, types.ImageListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	images := make([]compose.Image, 0, len(summaries))
	for _, s := range summaries {
		refs := s.RepoTags
		if len(refs) == 0 {
			refs = s.RepoDigests
		}
		if len(refs) == 0 {
			continue
		}
		for _, ref := range refs {
			images = append(images, compose.Image{
				Name:          ref,
				DockerImageID: s.ID,
				Status:        compose.ImageDownloaded,
			})
		}
	}
	return images, nil
}
