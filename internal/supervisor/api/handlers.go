package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/eagraf/shipmate/core/state/compose"
	"github.com/eagraf/shipmate/internal/supervisor/planner"
)

// TargetSetter is the slice of the target store the API mutates.
type TargetSetter interface {
	Set(doc []byte) error
	Patch(patchJSON []byte) error
	Raw() ([]byte, error)
}

// StateViewer reads the pieces the state endpoint reports.
type StateViewer interface {
	CurrentApps(ctx context.Context) ([]compose.App, error)
	LastPlan() []planner.Step
}

type HealthzHandler struct{}

func NewHealthzHandler() *HealthzHandler { return &HealthzHandler{} }

func (h *HealthzHandler) Pattern() string { return "/v1/healthz" }
func (h *HealthzHandler) Method() string  { return http.MethodGet }

func (h *HealthzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type SetTargetHandler struct {
	store TargetSetter
}

func NewSetTargetHandler(store TargetSetter) *SetTargetHandler {
	return &SetTargetHandler{store: store}
}

func (h *SetTargetHandler) Pattern() string { return "/v2/target" }
func (h *SetTargetHandler) Method() string  { return http.MethodPost }

func (h *SetTargetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Set(doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type PatchTargetHandler struct {
	store TargetSetter
}

func NewPatchTargetHandler(store TargetSetter) *PatchTargetHandler {
	return &PatchTargetHandler{store: store}
}

func (h *PatchTargetHandler) Pattern() string { return "/v2/target" }
func (h *PatchTargetHandler) Method() string  { return http.MethodPatch }

func (h *PatchTargetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Patch(patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// stateView is the wire form of the state endpoint.
type stateView struct {
	Current []compose.App   `json:"current"`
	Target  json.RawMessage `json:"target"`
	Steps   []stepView      `json:"steps"`
}

type stepView struct {
	Action string `json:"action"`
}

type StateHandler struct {
	viewer StateViewer
	store  TargetSetter
}

func NewStateHandler(viewer StateViewer, store TargetSetter) *StateHandler {
	return &StateHandler{viewer: viewer, store: store}
}

func (h *StateHandler) Pattern() string { return "/v2/state" }
func (h *StateHandler) Method() string  { return http.MethodGet }

func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	current, err := h.viewer.CurrentApps(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	targetDoc, err := h.store.Raw()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	steps := h.viewer.LastPlan()
	view := stateView{
		Current: current,
		Target:  targetDoc,
		Steps:   make([]stepView, 0, len(steps)),
	}
	for _, step := range steps {
		view.Steps = append(view.Steps, stepView{Action: string(step.Action())})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RestartServiceHandler restarts one service's container in place, bypassing
// the planner's diffing. The restart still goes through the step executor so
// the usual serialization and feedback rules apply.
type RestartServiceHandler struct {
	viewer  StateViewer
	applier planner.Applier
}

func NewRestartServiceHandler(viewer StateViewer, applier planner.Applier) *RestartServiceHandler {
	return &RestartServiceHandler{viewer: viewer, applier: applier}
}

func (h *RestartServiceHandler) Pattern() string {
	return "/v2/applications/{appId}/restart-service"
}
func (h *RestartServiceHandler) Method() string { return http.MethodPost }

func (h *RestartServiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	appID, err := compose.ParseAppID(mux.Vars(r)["appId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	serviceName := r.URL.Query().Get("service")
	if serviceName == "" {
		http.Error(w, "missing service query parameter", http.StatusBadRequest)
		return
	}

	apps, err := h.viewer.CurrentApps(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, app := range apps {
		if app.AppID != appID {
			continue
		}
		for _, svc := range app.Services {
			if svc.ServiceName != serviceName || !svc.HasContainer() {
				continue
			}
			if err := h.applier.Apply(r.Context(), []planner.Step{planner.Restart{Current: svc}}); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			return
		}
	}
	http.Error(w, fmt.Sprintf("no container for service %q in app %d", serviceName, appID), http.StatusNotFound)
}
