package compose

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/go-connections/nat"
	"github.com/rs/zerolog/log"
)

// ServiceStatus is the observed lifecycle state of a service's container.
type ServiceStatus string

const (
	StatusInstalling ServiceStatus = "Installing"
	StatusInstalled  ServiceStatus = "Installed"
	StatusRunning    ServiceStatus = "Running"
	StatusStopping   ServiceStatus = "Stopping"
	StatusStopped    ServiceStatus = "Stopped"
	StatusDead       ServiceStatus = "Dead"
	StatusHandover   ServiceStatus = "Handover"
)

// UpdateStrategy controls the kill/fetch/start ordering when a service's
// config changes materially.
type UpdateStrategy string

const (
	StrategyDownloadThenKill   UpdateStrategy = "download-then-kill"
	StrategyKillThenDownload   UpdateStrategy = "kill-then-download"
	StrategyDeleteThenDownload UpdateStrategy = "delete-then-download"
	StrategyHandover           UpdateStrategy = "hand-over"
)

// DefaultHandoverTimeout bounds how long an old container may overlap the new
// one during a hand-over update when the service does not set its own limit.
const DefaultHandoverTimeout = 60 * time.Second

var unknownStrategies sync.Map

// ParseUpdateStrategy maps the io.balena.update.strategy label to a strategy.
// Unknown values fall back to download-then-kill; each distinct unknown value
// is logged once.
func ParseUpdateStrategy(label string) UpdateStrategy {
	switch UpdateStrategy(label) {
	case StrategyDownloadThenKill, StrategyKillThenDownload, StrategyDeleteThenDownload, StrategyHandover:
		return UpdateStrategy(label)
	case "":
		return StrategyDownloadThenKill
	}
	if _, seen := unknownStrategies.LoadOrStore(label, true); !seen {
		log.Warn().Str("strategy", label).Msg("unknown update strategy, using download-then-kill")
	}
	return StrategyDownloadThenKill
}

// ServiceConfig is the declarative container configuration of a service. Most
// field types come straight from the Docker Go SDK.
type ServiceConfig struct {
	Image         string                    `json:"image"`
	Running       bool                      `json:"running"`
	Privileged    bool                      `json:"privileged,omitempty"`
	Environment   []string                  `json:"environment,omitempty"`
	Labels        map[string]string         `json:"labels,omitempty"`
	Volumes       []string                  `json:"volumes,omitempty"`
	Networks      map[string]ServiceNetwork `json:"networks,omitempty"`
	ExposedPorts  []string                  `json:"exposed_ports,omitempty"`
	PortBindings  nat.PortMap               `json:"port_bindings,omitempty"`
	RestartPolicy string                    `json:"restart,omitempty"`
	Command       []string                  `json:"command,omitempty"`
	DependsOn     []string                  `json:"depends_on,omitempty"`
}

// ServiceNetwork is a service's endpoint config on one of its app's networks.
type ServiceNetwork struct {
	Aliases []string `json:"aliases,omitempty"`
}

// Service is a single container specification belonging to an app, identified
// by (appId, serviceName, releaseId). ContainerID is set only on current-state
// services that have a container.
type Service struct {
	AppID       int           `json:"app_id"`
	AppUUID     string        `json:"app_uuid,omitempty"`
	ServiceID   int           `json:"service_id"`
	ServiceName string        `json:"service_name"`
	ReleaseID   int           `json:"release_id"`
	ImageID     int           `json:"image_id"`
	ImageName   string        `json:"image_name"`
	ContainerID string        `json:"container_id,omitempty"`
	Status      ServiceStatus `json:"status,omitempty"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
	Config      ServiceConfig `json:"config"`
}

// UpdateStrategy returns the service's configured update strategy.
func (s Service) UpdateStrategy() UpdateStrategy {
	return ParseUpdateStrategy(s.Config.Labels[LabelUpdateStrategy])
}

// HandoverTimeout returns the bounded overlap window for hand-over updates.
func (s Service) HandoverTimeout() time.Duration {
	raw := s.Config.Labels[LabelHandoverTimeout]
	if raw == "" {
		return DefaultHandoverTimeout
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return DefaultHandoverTimeout
	}
	return time.Duration(secs) * time.Second
}

// HasContainer reports whether this service is backed by an engine container.
func (s Service) HasContainer() bool {
	return s.ContainerID != ""
}

// ReferencesVolume reports whether the service mounts the named app volume.
// Bind mounts (host paths) do not count.
func (s Service) ReferencesVolume(name string) bool {
	for _, v := range s.Config.Volumes {
		source := v
		if idx := strings.Index(v, ":"); idx >= 0 {
			source = v[:idx]
		}
		if strings.HasPrefix(source, "/") || strings.HasPrefix(source, ".") {
			continue
		}
		if source == name {
			return true
		}
	}
	return false
}

// ReferencesNetwork reports whether the service joins the named app network.
// A service with no explicit networks joins "default".
func (s Service) ReferencesNetwork(name string) bool {
	if len(s.Config.Networks) == 0 {
		return name == DefaultNetworkName
	}
	_, ok := s.Config.Networks[name]
	return ok
}

// SameRelease reports whether both services belong to the same release.
func (s Service) SameRelease(other Service) bool {
	return s.ReleaseID == other.ReleaseID && s.ImageID == other.ImageID
}

// comparableConfig is the portion of a service config that participates in
// material-change detection: everything except the running flag, the
// io.balena.* labels, and release metadata.
func (s Service) comparableConfig() ServiceConfig {
	cfg := s.Config
	cfg.Running = false
	cfg.Labels = WithoutSupervisedLabels(cfg.Labels)
	cfg.Environment = sortedCopy(cfg.Environment)
	cfg.Volumes = sortedCopy(cfg.Volumes)
	cfg.DependsOn = sortedCopy(cfg.DependsOn)
	cfg.ExposedPorts = sortedCopy(cfg.ExposedPorts)
	if len(cfg.Networks) == 0 {
		cfg.Networks = nil
	}
	if len(cfg.PortBindings) == 0 {
		cfg.PortBindings = nil
	}
	if len(cfg.Command) == 0 {
		cfg.Command = nil
	}
	return cfg
}

// IsEqualExceptForRunningAndRelease reports whether two service configs are
// structurally equal ignoring the running flag and release metadata. When it
// returns false the services differ materially and the container must be
// recreated.
func (s Service) IsEqualExceptForRunningAndRelease(other Service) bool {
	return reflect.DeepEqual(s.comparableConfig(), other.comparableConfig())
}

// IsEqualConfig reports full config equality, including the desired running
// state, still ignoring supervised labels and release metadata.
func (s Service) IsEqualConfig(other Service) bool {
	return s.IsEqualExceptForRunningAndRelease(other) &&
		s.Config.Running == other.Config.Running
}

// Image synthesizes the image descriptor this service runs from.
func (s Service) Image() (Image, error) {
	name := s.ImageName
	if name == "" {
		name = s.Config.Image
	}
	if name == "" {
		return Image{}, fmt.Errorf("%w: %s/%s", ErrImageNotFound, strconv.Itoa(s.AppID), s.ServiceName)
	}
	return Image{
		ImageID:     s.ImageID,
		AppID:       s.AppID,
		ServiceID:   s.ServiceID,
		ServiceName: s.ServiceName,
		ReleaseID:   s.ReleaseID,
		Name:        name,
	}, nil
}

// ServiceFromComposeObject builds a target-state service from its compose
// definition.
func ServiceFromComposeObject(appID int, appUUID, name string, cfg ServiceConfig, serviceID, releaseID, imageID int) (Service, error) {
	if cfg.Image == "" {
		return Service{}, fmt.Errorf("%w: service %q has no image", ErrInvalidServiceConfiguration, name)
	}
	return Service{
		AppID:       appID,
		AppUUID:     appUUID,
		ServiceID:   serviceID,
		ServiceName: name,
		ReleaseID:   releaseID,
		ImageID:     imageID,
		ImageName:   cfg.Image,
		Config:      cfg,
	}, nil
}

// ServiceFromDockerContainer converts an inspected engine container into a
// current-state service. The container must carry the supervised labels.
func ServiceFromDockerContainer(ctr types.ContainerJSON) (Service, error) {
	if ctr.Config == nil {
		return Service{}, fmt.Errorf("%w: container %s has no config", ErrInvalidServiceConfiguration, ctr.ID)
	}
	labels := ctr.Config.Labels
	appID, err := ParseAppID(labels[LabelAppID])
	if err != nil {
		return Service{}, err
	}
	serviceName := labels[LabelServiceName]
	if serviceName == "" {
		return Service{}, fmt.Errorf("%w: container %s has no service name label", ErrInvalidServiceConfiguration, ctr.ID)
	}
	serviceID, _ := strconv.Atoi(labels[LabelServiceID])
	releaseID, _ := strconv.Atoi(labels[LabelReleaseID])

	created, _ := time.Parse(time.RFC3339Nano, ctr.Created)

	exposed := make([]string, 0, len(ctr.Config.ExposedPorts))
	for p := range ctr.Config.ExposedPorts {
		exposed = append(exposed, string(p))
	}
	sort.Strings(exposed)

	cfg := ServiceConfig{
		Image:        ctr.Config.Image,
		Running:      ctr.State != nil && ctr.State.Running,
		Environment:  ctr.Config.Env,
		Labels:       labels,
		ExposedPorts: exposed,
	}
	if ctr.HostConfig != nil {
		cfg.Privileged = ctr.HostConfig.Privileged
		cfg.PortBindings = ctr.HostConfig.PortBindings
		cfg.RestartPolicy = string(ctr.HostConfig.RestartPolicy.Name)
		for _, bind := range ctr.HostConfig.Binds {
			cfg.Volumes = append(cfg.Volumes, trimVolumeAppID(appID, bind))
		}
	}
	if ctr.NetworkSettings != nil && len(ctr.NetworkSettings.Networks) > 0 {
		cfg.Networks = make(map[string]ServiceNetwork, len(ctr.NetworkSettings.Networks))
		for engineName, endpoint := range ctr.NetworkSettings.Networks {
			_, name, err := ParseEngineName(engineName)
			if err != nil {
				// Not an app-scoped network (e.g. the global supervised
				// bridge); leave it out of the compose view.
				continue
			}
			cfg.Networks[name] = ServiceNetwork{Aliases: endpoint.Aliases}
		}
	}

	status := statusFromDockerState(ctr.State)

	return Service{
		AppID:       appID,
		AppUUID:     labels[LabelAppUUID],
		ServiceID:   serviceID,
		ServiceName: serviceName,
		ReleaseID:   releaseID,
		ImageID:     0,
		ImageName:   ctr.Config.Image,
		ContainerID: ctr.ID,
		Status:      status,
		CreatedAt:   created,
		Config:      cfg,
	}, nil
}

func statusFromDockerState(state *types.ContainerState) ServiceStatus {
	if state == nil {
		return StatusInstalled
	}
	switch state.Status {
	case "running", "restarting", "paused":
		return StatusRunning
	case "removing":
		return StatusStopping
	case "dead":
		return StatusDead
	case "created":
		return StatusInstalled
	default:
		return StatusStopped
	}
}

// trimVolumeAppID maps an engine bind source "1_data:/var/data" back to the
// compose-level "data:/var/data".
func trimVolumeAppID(appID int, bind string) string {
	prefix := fmt.Sprintf("%d_", appID)
	if strings.HasPrefix(bind, prefix) {
		return strings.TrimPrefix(bind, prefix)
	}
	return bind
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
