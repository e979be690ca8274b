package compose

import (
	"fmt"
	"reflect"

	"github.com/docker/docker/api/types"
)

// DefaultNetworkName is the per-app network every service joins unless its
// compose definition says otherwise.
const DefaultNetworkName = "default"

// SupervisorNetworkName is the host-global bridge the agent guarantees exists.
const SupervisorNetworkName = "supervisor0"

// IPAMPool is one address pool of a network's IPAM config.
type IPAMPool struct {
	Subnet     string            `json:"subnet"`
	Gateway    string            `json:"gateway"`
	IPRange    string            `json:"ip_range,omitempty"`
	AuxAddress map[string]string `json:"aux_address,omitempty"`
}

// IPAMConfig is a network's address management config.
type IPAMConfig struct {
	Driver string     `json:"driver,omitempty"`
	Pools  []IPAMPool `json:"config,omitempty"`
}

// NetworkConfig is the declarative configuration of an app network.
type NetworkConfig struct {
	Driver     string            `json:"driver,omitempty"`
	IPAM       IPAMConfig        `json:"ipam,omitempty"`
	EnableIPv6 bool              `json:"enable_ipv6,omitempty"`
	Internal   bool              `json:"internal,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
	Options    map[string]string `json:"options,omitempty"`
}

// Network is an app-scoped engine network, identified by (appId, name).
type Network struct {
	AppID  int           `json:"app_id"`
	Name   string        `json:"name"`
	Config NetworkConfig `json:"config"`
}

// EngineName returns the name this network carries on the engine.
func (n Network) EngineName() string {
	if n.AppID == 0 {
		return n.Name
	}
	return EngineName(n.AppID, n.Name)
}

// IsEqualConfig compares two networks structurally, ignoring supervised
// labels.
func (n Network) IsEqualConfig(other Network) bool {
	a, b := n.Config, other.Config
	if a.Driver == "" {
		a.Driver = "bridge"
	}
	if b.Driver == "" {
		b.Driver = "bridge"
	}
	if a.IPAM.Driver == "" {
		a.IPAM.Driver = "default"
	}
	if b.IPAM.Driver == "" {
		b.IPAM.Driver = "default"
	}
	// The engine reports the address pools it assigned even when the compose
	// definition left IPAM open; only compare pools both sides pin down.
	if len(a.IPAM.Pools) == 0 || len(b.IPAM.Pools) == 0 {
		a.IPAM.Pools = nil
		b.IPAM.Pools = nil
	}
	a.Labels = WithoutSupervisedLabels(a.Labels)
	b.Labels = WithoutSupervisedLabels(b.Labels)
	a.Options = normalizeMap(a.Options)
	b.Options = normalizeMap(b.Options)
	return reflect.DeepEqual(a, b)
}

// Validate checks the structural invariants of the network config.
func (n Network) Validate() error {
	for _, pool := range n.Config.IPAM.Pools {
		if pool.Subnet == "" || pool.Gateway == "" {
			return fmt.Errorf("%w: network %q ipam pool needs both subnet and gateway", ErrInvalidNetworkConfiguration, n.Name)
		}
	}
	return nil
}

// NetworkFromComposeObject builds a target-state network from its compose
// definition, attaching the supervised ownership labels.
func NetworkFromComposeObject(appID int, appUUID, name string, cfg NetworkConfig) (Network, error) {
	if cfg.Labels == nil {
		cfg.Labels = make(map[string]string)
	}
	for k, v := range SupervisedLabels(appID, appUUID) {
		cfg.Labels[k] = v
	}
	n := Network{AppID: appID, Name: name, Config: cfg}
	if err := n.Validate(); err != nil {
		return Network{}, err
	}
	return n, nil
}

// DefaultNetwork is the bridge network synthesized for apps that declare
// services but no default network of their own.
func DefaultNetwork(appID int, appUUID string) Network {
	n, _ := NetworkFromComposeObject(appID, appUUID, DefaultNetworkName, NetworkConfig{Driver: "bridge"})
	return n
}

// SupervisorNetwork is the global supervised bridge.
func SupervisorNetwork() Network {
	return Network{
		AppID: 0,
		Name:  SupervisorNetworkName,
		Config: NetworkConfig{
			Driver: "bridge",
			Labels: map[string]string{LabelSupervised: "true"},
		},
	}
}

// NetworkFromDockerNetwork converts an engine network into a current-state
// network. Only supervised networks should be passed here.
func NetworkFromDockerNetwork(res types.NetworkResource) (Network, error) {
	var appID int
	name := res.Name
	if res.Name != SupervisorNetworkName {
		var err error
		appID, name, err = ParseEngineName(res.Name)
		if err != nil {
			return Network{}, err
		}
	}

	ipam := IPAMConfig{Driver: res.IPAM.Driver}
	for _, pool := range res.IPAM.Config {
		ipam.Pools = append(ipam.Pools, IPAMPool{
			Subnet:     pool.Subnet,
			Gateway:    pool.Gateway,
			IPRange:    pool.IPRange,
			AuxAddress: pool.AuxAddress,
		})
	}

	return Network{
		AppID: appID,
		Name:  name,
		Config: NetworkConfig{
			Driver:     res.Driver,
			IPAM:       ipam,
			EnableIPv6: res.EnableIPv6,
			Internal:   res.Internal,
			Labels:     res.Labels,
			Options:    res.Options,
		},
	}, nil
}
