package compose

import (
	"encoding/json"

	"github.com/wI2L/jsondiff"
)

// DiffConfigs renders the material difference between two service configs as
// a JSON patch, for logging. Supervised labels, the running flag and release
// metadata are excluded, matching the equality predicates.
func DiffConfigs(current, target Service) ([]byte, error) {
	patch, err := jsondiff.Compare(current.comparableConfig(), target.comparableConfig())
	if err != nil {
		return nil, err
	}
	return json.Marshal(patch)
}
