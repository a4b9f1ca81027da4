// Package services implements the recommendation application services:
// preference management, historical performance analysis, workload
// balancing, and the scoring engine that composes them.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// PreferenceManager stores and retrieves per-user task preferences.
// Setting a preference of an existing type overwrites it; writes follow
// last-writer-wins semantics, serialized within the process.
type PreferenceManager struct {
	store  domain.DocumentStore
	logger *slog.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// NewPreferenceManager creates a preference manager backed by the given
// document store.
func NewPreferenceManager(store domain.DocumentStore, logger *slog.Logger) *PreferenceManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceManager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Preferences returns all preferences for a user, sorted by type. A user
// with no stored preferences yields an empty slice.
func (m *PreferenceManager) Preferences(ctx context.Context, userID string) ([]domain.UserPreference, error) {
	prefs, err := m.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(prefs, func(i, j int) bool { return prefs[i].Type < prefs[j].Type })
	return prefs, nil
}

// Preference returns the preference of the given type, if set.
func (m *PreferenceManager) Preference(ctx context.Context, userID string, ptype domain.PreferenceType) (*domain.UserPreference, error) {
	prefs, err := m.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range prefs {
		if prefs[i].Type == ptype {
			return &prefs[i], nil
		}
	}
	return nil, nil
}

// SetPreference creates or overwrites the preference of the given type.
// A non-positive weight falls back to 1.0. The original creation time is
// preserved on overwrite.
func (m *PreferenceManager) SetPreference(ctx context.Context, userID string, ptype domain.PreferenceType, value any, weight float64) (domain.UserPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefs, err := m.load(ctx, userID)
	if err != nil {
		return domain.UserPreference{}, err
	}

	pref := domain.NewUserPreference(userID, ptype, value, weight)
	pref.CreatedAt = m.now().UTC()
	pref.UpdatedAt = pref.CreatedAt

	replaced := false
	for i := range prefs {
		if prefs[i].Type == ptype {
			pref.CreatedAt = prefs[i].CreatedAt
			prefs[i] = pref
			replaced = true
			break
		}
	}
	if !replaced {
		prefs = append(prefs, pref)
	}

	if err := m.save(ctx, userID, prefs); err != nil {
		return domain.UserPreference{}, err
	}

	m.logger.Debug("preference set",
		"user_id", userID,
		"preference_type", string(ptype),
		"replaced", replaced,
	)

	return pref, nil
}

// DeletePreference removes the preference of the given type. It reports
// whether a preference was actually removed.
func (m *PreferenceManager) DeletePreference(ctx context.Context, userID string, ptype domain.PreferenceType) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefs, err := m.load(ctx, userID)
	if err != nil {
		return false, err
	}

	kept := prefs[:0]
	removed := false
	for _, pref := range prefs {
		if pref.Type == ptype {
			removed = true
			continue
		}
		kept = append(kept, pref)
	}
	if !removed {
		return false, nil
	}

	if len(kept) == 0 {
		if err := m.store.Delete(ctx, domain.CollectionPreferences, userID); err != nil {
			return false, fmt.Errorf("delete preferences: %w", err)
		}
		return true, nil
	}

	if err := m.save(ctx, userID, kept); err != nil {
		return false, err
	}
	return true, nil
}

// ClearPreferences removes all preferences for a user. Clearing a user
// with no preferences is not an error.
func (m *PreferenceManager) ClearPreferences(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, domain.CollectionPreferences, userID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}

	m.logger.Debug("preferences cleared", "user_id", userID)
	return nil
}

func (m *PreferenceManager) load(ctx context.Context, userID string) ([]domain.UserPreference, error) {
	doc, err := m.store.Get(ctx, domain.CollectionPreferences, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.UserPreference{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	var prefs []domain.UserPreference
	if err := json.Unmarshal(doc, &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences for user %s: %w", userID, err)
	}
	return prefs, nil
}

func (m *PreferenceManager) save(ctx context.Context, userID string, prefs []domain.UserPreference) error {
	doc, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := m.store.Put(ctx, domain.CollectionPreferences, userID, doc); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
