package compose

import "strings"

// Labels read and written on engine objects. Objects without the supervised
// label are ignored entirely.
const (
	LabelSupervised      = "io.balena.supervised"
	LabelAppID           = "io.balena.app-id"
	LabelAppUUID         = "io.balena.app-uuid"
	LabelServiceName     = "io.balena.service-name"
	LabelServiceID       = "io.balena.service-id"
	LabelReleaseID       = "io.balena.release-id"
	LabelUpdateStrategy  = "io.balena.update.strategy"
	LabelHandoverTimeout = "io.balena.update.handover-timeout"
)

const supervisedLabelPrefix = "io.balena."

// IsSupervised reports whether the given engine labels mark an object as
// owned by this agent.
func IsSupervised(labels map[string]string) bool {
	return labels[LabelSupervised] == "true"
}

// WithoutSupervisedLabels returns a copy of labels with every io.balena.*
// entry removed. All equality predicates compare labels through this one
// function so that the stripping rules cannot drift between entity types.
func WithoutSupervisedLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		if strings.HasPrefix(k, supervisedLabelPrefix) {
			continue
		}
		out[k] = v
	}
	return out
}

// SupervisedLabels returns the ownership labels attached to every object this
// agent creates for the given app.
func SupervisedLabels(appID int, appUUID string) map[string]string {
	labels := map[string]string{
		LabelSupervised: "true",
	}
	if appUUID != "" {
		labels[LabelAppUUID] = appUUID
	}
	return labels
}
