package compose

import (
	"reflect"

	"github.com/docker/docker/api/types/volume"
)

// VolumeConfig is the declarative configuration of an app volume.
type VolumeConfig struct {
	Driver     string            `json:"driver,omitempty"`
	DriverOpts map[string]string `json:"driver_opts,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
}

// Volume is an app-scoped engine volume, identified by (appId, name).
type Volume struct {
	AppID  int          `json:"app_id"`
	Name   string       `json:"name"`
	Config VolumeConfig `json:"config"`
}

// EngineName returns the name this volume carries on the engine.
func (v Volume) EngineName() string {
	return EngineName(v.AppID, v.Name)
}

// IsEqualConfig compares two volumes structurally, ignoring supervised labels.
func (v Volume) IsEqualConfig(other Volume) bool {
	a, b := v.Config, other.Config
	if a.Driver == "" {
		a.Driver = "local"
	}
	if b.Driver == "" {
		b.Driver = "local"
	}
	a.Labels = WithoutSupervisedLabels(a.Labels)
	b.Labels = WithoutSupervisedLabels(b.Labels)
	a.DriverOpts = normalizeMap(a.DriverOpts)
	b.DriverOpts = normalizeMap(b.DriverOpts)
	return reflect.DeepEqual(a, b)
}

// normalizeMap folds empty maps into nil so DeepEqual treats "absent" and
// "empty" the same.
func normalizeMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

// VolumeFromComposeObject builds a target-state volume from its compose
// definition, attaching the supervised ownership labels.
func VolumeFromComposeObject(appID int, appUUID, name string, cfg VolumeConfig) Volume {
	if cfg.Labels == nil {
		cfg.Labels = make(map[string]string)
	}
	for k, v := range SupervisedLabels(appID, appUUID) {
		cfg.Labels[k] = v
	}
	return Volume{AppID: appID, Name: name, Config: cfg}
}

// VolumeFromDockerVolume converts an engine volume into a current-state
// volume. Only supervised volumes should be passed here.
func VolumeFromDockerVolume(vol volume.Volume) (Volume, error) {
	appID, name, err := ParseEngineName(vol.Name)
	if err != nil {
		return Volume{}, err
	}
	return Volume{
		AppID: appID,
		Name:  name,
		Config: VolumeConfig{
			Driver:     vol.Driver,
			DriverOpts: vol.Options,
			Labels:     vol.Labels,
		},
	}, nil
}
