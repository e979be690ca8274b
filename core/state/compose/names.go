package compose

import (
	"fmt"
	"regexp"
	"strconv"
)

// Engine-side networks and volumes are named "<appId>_<name>".
var engineNamePattern = regexp.MustCompile(`^([0-9]+)_(.+)$`)

// EngineName returns the name an app-scoped network or volume carries on the
// engine.
func EngineName(appID int, name string) string {
	return fmt.Sprintf("%d_%s", appID, name)
}

// ParseEngineName splits an engine-side network or volume name back into the
// owning app id and the compose-level name.
func ParseEngineName(engineName string) (int, string, error) {
	m := engineNamePattern.FindStringSubmatch(engineName)
	if m == nil {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidName, engineName)
	}
	appID, err := strconv.Atoi(m[1])
	if err != nil || appID <= 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidAppID, m[1])
	}
	return appID, m[2], nil
}

// ParseAppID parses the numeric app id carried in an engine label.
func ParseAppID(label string) (int, error) {
	appID, err := strconv.Atoi(label)
	if err != nil || appID <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAppID, label)
	}
	return appID, nil
}
