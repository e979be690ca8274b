package compose

import "errors"

var (
	// ErrInvalidAppID means a numeric app id label failed to parse.
	ErrInvalidAppID = errors.New("invalid app id")
	// ErrInvalidName means an engine object name does not match the
	// "<appId>_<name>" form.
	ErrInvalidName = errors.New("invalid engine object name")
	// ErrInvalidNetworkConfiguration means a network failed structural
	// validation, e.g. an IPAM pool missing its subnet or gateway.
	ErrInvalidNetworkConfiguration = errors.New("invalid network configuration")
	// ErrInvalidServiceConfiguration means a service failed structural
	// validation at the adapter boundary.
	ErrInvalidServiceConfiguration = errors.New("invalid service configuration")
	// ErrImageNotFound means an image descriptor was requested for a service
	// that declares no image.
	ErrImageNotFound = errors.New("service has no image")
	// ErrDependencyCycle means a target app's depends_on graph is cyclic.
	ErrDependencyCycle = errors.New("service dependency cycle")
)
