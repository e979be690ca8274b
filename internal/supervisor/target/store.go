// Package target persists the device's target composition. Documents are
// validated against the compose schema and rejected on dependency cycles
// before anything is written, so the planner only ever sees well-formed
// targets.
package target

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eagraf/shipmate/core/state/compose"
)

// targetRecord is one row per app: the raw JSON of its target definition.
type targetRecord struct {
	AppID     int `gorm:"primaryKey"`
	UUID      string
	Raw       []byte
	UpdatedAt time.Time
}

func (targetRecord) TableName() string {
	return "target_apps"
}

// Store is the sqlite-backed target-state store.
type Store struct {
	db *gorm.DB

	mu     sync.Mutex
	cached []compose.App
}

// NewStore opens (and migrates) the store at the given path.
func NewStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open target store: %w", err)
	}
	if err := db.AutoMigrate(&targetRecord{}); err != nil {
		return nil, fmt.Errorf("migrate target store: %w", err)
	}
	return &Store{db: db}, nil
}

// Set replaces the whole target state with the given document. The document
// is schema-validated and cycle-checked before any row changes.
func (s *Store) Set(doc []byte) error {
	apps, err := compose.ParseTarget(doc)
	if err != nil {
		return err
	}

	var parsed struct {
		Apps map[string]json.RawMessage `json:"apps"`
	}
	if err := json.Unmarshal(doc, &parsed); err != nil {
		return fmt.Errorf("unmarshal target state: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&targetRecord{}).Error; err != nil {
			return err
		}
		for _, app := range apps {
			raw := parsed.Apps[fmt.Sprintf("%d", app.AppID)]
			rec := targetRecord{AppID: app.AppID, UUID: app.AppUUID, Raw: raw}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist target state: %w", err)
	}

	s.mu.Lock()
	s.cached = apps
	s.mu.Unlock()

	log.Info().Int("apps", len(apps)).Msg("target state updated")
	return nil
}

// Patch applies an RFC 6902 patch to the stored document, revalidates and
// persists the result.
func (s *Store) Patch(patchJSON []byte) error {
	doc, err := s.Raw()
	if err != nil {
		return err
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return fmt.Errorf("invalid JSON patch: %w", err)
	}
	updated, err := patch.Apply(doc)
	if err != nil {
		return fmt.Errorf("error applying patch to target state: %w", err)
	}
	return s.Set(updated)
}

// TargetApps returns the parsed target apps.
func (s *Store) TargetApps() ([]compose.App, error) {
	s.mu.Lock()
	if s.cached != nil {
		apps := s.cached
		s.mu.Unlock()
		return apps, nil
	}
	s.mu.Unlock()

	doc, err := s.Raw()
	if err != nil {
		return nil, err
	}
	apps, err := compose.ParseTarget(doc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = apps
	s.mu.Unlock()
	return apps, nil
}

// Raw reassembles the stored rows into the full target document.
func (s *Store) Raw() ([]byte, error) {
	var records []targetRecord
	if err := s.db.Order("app_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read target store: %w", err)
	}

	apps := make(map[string]json.RawMessage, len(records))
	for _, rec := range records {
		apps[fmt.Sprintf("%d", rec.AppID)] = rec.Raw
	}
	return json.Marshal(map[string]any{"apps": apps})
}
