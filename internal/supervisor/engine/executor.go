package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/api/types/volume"
	dockerclient "github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/eagraf/shipmate/core/state/compose"
	"github.com/eagraf/shipmate/internal/supervisor/planner"
)

// stopTimeout is how long to wait for graceful container stop before SIGKILL.
const stopTimeout = 10 * time.Second

// defaultParallelism bounds how many independent steps run at once.
const defaultParallelism = 4

// HandoverRecorder is told when a container has been signaled to hand over,
// so the loop can flag it expired once its timeout elapses.
type HandoverRecorder interface {
	RecordHandover(containerID string, timeout time.Duration)
}

// Executor runs planner step batches against the engine. Steps with disjoint
// resource keys run in parallel; steps sharing a key run in order.
type Executor struct {
	docker      Docker
	fetcher     *Fetcher
	reporter    planner.StartReporter
	handover    HandoverRecorder
	parallelism int
}

var _ planner.Applier = (*Executor)(nil)

func NewExecutor(docker Docker, fetcher *Fetcher, reporter planner.StartReporter, handover HandoverRecorder) *Executor {
	return &Executor{
		docker:      docker,
		fetcher:     fetcher,
		reporter:    reporter,
		handover:    handover,
		parallelism: defaultParallelism,
	}
}

// Apply executes a step batch and returns the first error. A failing step
// ends the run of the steps that share its resource key and cancels the
// context the remaining steps run under; the planner re-derives any missed
// work on the next round.
func (e *Executor) Apply(ctx context.Context, steps []planner.Step) error {
	byKey := make(map[string][]planner.Step)
	var keys []string
	for _, step := range steps {
		k := planner.ResourceKey(step)
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], step)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.parallelism)
	for _, k := range keys {
		serial := byKey[k]
		eg.Go(func() error {
			for _, step := range serial {
				if err := e.execute(egCtx, step); err != nil {
					log.Error().Err(err).Str("action", string(step.Action())).Msg("step failed")
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

func (e *Executor) execute(ctx context.Context, step planner.Step) error {
	switch s := step.(type) {
	case planner.Noop:
		return nil
	case planner.Fetch:
		// The pull outlives this batch; ctx is cancelled once Apply returns.
		e.fetcher.Fetch(context.WithoutCancel(ctx), s.Image)
		return nil
	case planner.RemoveImage:
		return e.removeImage(ctx, s.Image)
	case planner.CreateNetwork:
		return e.createNetwork(ctx, s.Network)
	case planner.RemoveNetwork:
		return e.removeNetwork(ctx, s.Network)
	case planner.CreateVolume:
		return e.createVolume(ctx, s.Volume)
	case planner.RemoveVolume:
		return e.removeVolume(ctx, s.Volume)
	case planner.Start:
		return e.startService(ctx, s.Target)
	case planner.Stop:
		return e.stopService(ctx, s.Current)
	case planner.Kill:
		return e.killService(ctx, s.Current)
	case planner.Remove:
		return e.removeService(ctx, s.Current)
	case planner.UpdateMetadata:
		return e.updateMetadata(ctx, s.Current, s.Target)
	case planner.Handover:
		return e.signalHandover(ctx, s)
	case planner.Restart:
		return e.restartService(ctx, s.Current)
	default:
		return fmt.Errorf("unknown step action %q", step.Action())
	}
}

func (e *Executor) removeImage(ctx context.Context, img compose.Image) error {
	ref := img.Name
	if img.DockerImageID != "" {
		ref = img.DockerImageID
	}
	_, err := e.docker.ImageRemove(ctx, ref, types.ImageRemoveOptions{})
	if err != nil && !dockerclient.IsErrNotFound(err) {
		return fmt.Errorf("remove image %s: %w", img.Name, err)
	}
	log.Info().Str("image", img.Name).Msg("removed image")
	return nil
}

func (e *Executor) createNetwork(ctx context.Context, n compose.Network) error {
	ipam := &network.IPAM{Driver: n.Config.IPAM.Driver}
	for _, pool := range n.Config.IPAM.Pools {
		ipam.Config = append(ipam.Config, network.IPAMConfig{
			Subnet:     pool.Subnet,
			Gateway:    pool.Gateway,
			IPRange:    pool.IPRange,
			AuxAddress: pool.AuxAddress,
		})
	}
	driver := n.Config.Driver
	if driver == "" {
		driver = "bridge"
	}
	_, err := e.docker.NetworkCreate(ctx, n.EngineName(), types.NetworkCreate{
		Driver:     driver,
		EnableIPv6: n.Config.EnableIPv6,
		Internal:   n.Config.Internal,
		IPAM:       ipam,
		Options:    n.Config.Options,
		Labels:     n.Config.Labels,
	})
	if err != nil {
		return fmt.Errorf("create network %q: %w", n.EngineName(), err)
	}
	log.Info().Str("network", n.EngineName()).Msg("created network")
	return nil
}

func (e *Executor) removeNetwork(ctx context.Context, n compose.Network) error {
	if err := e.docker.NetworkRemove(ctx, n.EngineName()); err != nil && !dockerclient.IsErrNotFound(err) {
		return fmt.Errorf("remove network %q: %w", n.EngineName(), err)
	}
	log.Info().Str("network", n.EngineName()).Msg("removed network")
	return nil
}

func (e *Executor) createVolume(ctx context.Context, v compose.Volume) error {
	_, err := e.docker.VolumeCreate(ctx, volume.CreateOptions{
		Name:       v.EngineName(),
		Driver:     v.Config.Driver,
		DriverOpts: v.Config.DriverOpts,
		Labels:     v.Config.Labels,
	})
	if err != nil {
		return fmt.Errorf("create volume %q: %w", v.EngineName(), err)
	}
	log.Info().Str("volume", v.EngineName()).Msg("created volume")
	return nil
}

func (e *Executor) removeVolume(ctx context.Context, v compose.Volume) error {
	if err := e.docker.VolumeRemove(ctx, v.EngineName(), false); err != nil && !dockerclient.IsErrNotFound(err) {
		return fmt.Errorf("remove volume %q: %w", v.EngineName(), err)
	}
	log.Info().Str("volume", v.EngineName()).Msg("removed volume")
	return nil
}

// startService starts an existing stopped container, or creates and starts a
// new one for the target service.
func (e *Executor) startService(ctx context.Context, svc compose.Service) error {
	containerID := svc.ContainerID
	if containerID == "" {
		resp, err := e.docker.ContainerCreate(ctx,
			containerConfig(svc),
			hostConfig(svc),
			networkingConfig(svc),
			nil,
			ContainerName(svc),
		)
		if err != nil {
			return fmt.Errorf("create container for %s: %w", svc.ServiceName, err)
		}
		containerID = resp.ID
	}

	if err := e.docker.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		if svc.ContainerID == "" {
			// Best-effort cleanup of the container we just created.
			_ = e.docker.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
		}
		return fmt.Errorf("start container for %s: %w", svc.ServiceName, err)
	}

	e.reporter.MarkStarted(containerID)
	log.Info().Str("service", svc.ServiceName).Str("container", containerID).Msg("started service")
	return nil
}

func (e *Executor) stopService(ctx context.Context, svc compose.Service) error {
	timeout := int(stopTimeout.Seconds())
	if err := e.docker.ContainerStop(ctx, svc.ContainerID, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("stop container for %s: %w", svc.ServiceName, err)
	}
	log.Info().Str("service", svc.ServiceName).Msg("stopped service")
	return nil
}

func (e *Executor) killService(ctx context.Context, svc compose.Service) error {
	if svc.ContainerID == "" {
		return nil
	}
	if err := e.docker.ContainerKill(ctx, svc.ContainerID, "SIGKILL"); err != nil && !dockerclient.IsErrNotFound(err) {
		if !isNotRunning(err) {
			return fmt.Errorf("kill container for %s: %w", svc.ServiceName, err)
		}
	}
	if err := e.docker.ContainerRemove(ctx, svc.ContainerID, container.RemoveOptions{Force: true, RemoveVolumes: false}); err != nil && !dockerclient.IsErrNotFound(err) {
		return fmt.Errorf("remove container for %s: %w", svc.ServiceName, err)
	}
	e.reporter.ClearStarted(svc.ContainerID)
	log.Info().Str("service", svc.ServiceName).Msg("killed service")
	return nil
}

func (e *Executor) removeService(ctx context.Context, svc compose.Service) error {
	if svc.ContainerID == "" {
		return nil
	}
	if err := e.docker.ContainerRemove(ctx, svc.ContainerID, container.RemoveOptions{Force: true}); err != nil && !dockerclient.IsErrNotFound(err) {
		return fmt.Errorf("remove container for %s: %w", svc.ServiceName, err)
	}
	e.reporter.ClearStarted(svc.ContainerID)
	log.Info().Str("service", svc.ServiceName).Msg("removed dead container")
	return nil
}

// updateMetadata renames the container so its name reflects the new release.
// The config is otherwise unchanged, so no recreation is needed.
func (e *Executor) updateMetadata(ctx context.Context, cur, tgt compose.Service) error {
	if err := e.docker.ContainerRename(ctx, cur.ContainerID, ContainerName(tgt)); err != nil {
		return fmt.Errorf("rename container for %s: %w", cur.ServiceName, err)
	}
	log.Info().Str("service", cur.ServiceName).Int("releaseId", tgt.ReleaseID).Msg("updated release metadata")
	return nil
}

// signalHandover tells the old container its replacement is up and records
// the deadline after which it will be killed regardless.
func (e *Executor) signalHandover(ctx context.Context, s planner.Handover) error {
	if err := e.docker.ContainerKill(ctx, s.Current.ContainerID, "SIGUSR1"); err != nil && !dockerclient.IsErrNotFound(err) {
		return fmt.Errorf("signal handover for %s: %w", s.Current.ServiceName, err)
	}
	e.handover.RecordHandover(s.Current.ContainerID, s.Timeout)
	log.Info().Str("service", s.Current.ServiceName).Dur("timeout", s.Timeout).Msg("signaled handover")
	return nil
}

func (e *Executor) restartService(ctx context.Context, svc compose.Service) error {
	timeout := int(stopTimeout.Seconds())
	if err := e.docker.ContainerRestart(ctx, svc.ContainerID, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("restart container for %s: %w", svc.ServiceName, err)
	}
	e.reporter.MarkStarted(svc.ContainerID)
	log.Info().Str("service", svc.ServiceName).Msg("restarted service")
	return nil
}

// ContainerName returns the engine container name for a service:
// <serviceName>_<imageId>_<releaseId>_<uuid>. The uuid is derived from the
// service identity, so re-creating the same release yields the same name and
// the engine's name conflict stops accidental duplicates.
func ContainerName(svc compose.Service) string {
	identity := fmt.Sprintf("%d/%s/%d/%d", svc.AppID, svc.ServiceName, svc.ImageID, svc.ReleaseID)
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(identity))
	suffix := strings.ReplaceAll(id.String(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%d_%s", svc.ServiceName, svc.ImageID, svc.ReleaseID, suffix)
}

func containerConfig(svc compose.Service) *container.Config {
	labels := map[string]string{
		compose.LabelSupervised:  "true",
		compose.LabelAppID:       strconv.Itoa(svc.AppID),
		compose.LabelServiceName: svc.ServiceName,
		compose.LabelServiceID:   strconv.Itoa(svc.ServiceID),
		compose.LabelReleaseID:   strconv.Itoa(svc.ReleaseID),
	}
	if svc.AppUUID != "" {
		labels[compose.LabelAppUUID] = svc.AppUUID
	}
	for k, v := range svc.Config.Labels {
		labels[k] = v
	}

	exposed := make(nat.PortSet, len(svc.Config.ExposedPorts))
	for _, p := range svc.Config.ExposedPorts {
		exposed[nat.Port(p)] = struct{}{}
	}

	cfg := &container.Config{
		Image:        svc.Config.Image,
		Env:          svc.Config.Environment,
		Labels:       labels,
		ExposedPorts: exposed,
	}
	if len(svc.Config.Command) > 0 {
		cfg.Cmd = strslice.StrSlice(svc.Config.Command)
	}
	return cfg
}

func hostConfig(svc compose.Service) *container.HostConfig {
	cfg := &container.HostConfig{
		Privileged:   svc.Config.Privileged,
		PortBindings: svc.Config.PortBindings,
	}
	if svc.Config.RestartPolicy != "" {
		cfg.RestartPolicy = container.RestartPolicy{Name: container.RestartPolicyMode(svc.Config.RestartPolicy)}
	}
	for _, v := range svc.Config.Volumes {
		cfg.Binds = append(cfg.Binds, engineBind(svc.AppID, v))
	}
	return cfg
}

// engineBind maps a compose volume entry to its engine form: named volumes
// get the app id prefix, host paths pass through.
func engineBind(appID int, entry string) string {
	source := entry
	if idx := strings.Index(entry, ":"); idx >= 0 {
		source = entry[:idx]
	}
	if strings.HasPrefix(source, "/") || strings.HasPrefix(source, ".") {
		return entry
	}
	return fmt.Sprintf("%d_%s", appID, entry)
}

func networkingConfig(svc compose.Service) *network.NetworkingConfig {
	endpoints := make(map[string]*network.EndpointSettings)
	if len(svc.Config.Networks) == 0 {
		endpoints[compose.EngineName(svc.AppID, compose.DefaultNetworkName)] = &network.EndpointSettings{
			Aliases: []string{svc.ServiceName},
		}
	} else {
		for name, endpoint := range svc.Config.Networks {
			aliases := append([]string{svc.ServiceName}, endpoint.Aliases...)
			endpoints[compose.EngineName(svc.AppID, name)] = &network.EndpointSettings{Aliases: aliases}
		}
	}
	return &network.NetworkingConfig{EndpointsConfig: endpoints}
}

func isNotRunning(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "is not running")
}
