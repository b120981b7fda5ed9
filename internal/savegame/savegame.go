// Package savegame serializes the game state to the single blob handed to
// the persistence collaborator, and upgrades blobs written by older builds.
package savegame

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
)

var (
	// ErrNewerVersion is returned for saves written by a newer build.
	ErrNewerVersion = errors.New("savegame: written by a newer version")
	// ErrCorrupt is returned when the blob is not a JSON object.
	ErrCorrupt = errors.New("savegame: corrupt document")
)

// Encode serializes s tagged with the current version.
func Encode(s game.State) (string, error) {
	s.Version = game.CurrentVersion
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode game state: %w", err)
	}
	return string(raw), nil
}

// Decode parses a stored blob, migrating it forward when it predates the
// current version. A missing version tag is treated as version 1.
func Decode(raw string, b config.Balance) (game.State, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return game.State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc == nil {
		return game.State{}, ErrCorrupt
	}

	from := VersionOf(doc)
	if from > game.CurrentVersion {
		return game.State{}, fmt.Errorf("%w: version %d, expected at most %d", ErrNewerVersion, from, game.CurrentVersion)
	}

	if err := NewMigrator(b).Up(doc, from); err != nil {
		return game.State{}, err
	}

	migrated, err := json.Marshal(doc)
	if err != nil {
		return game.State{}, fmt.Errorf("failed to re-encode migrated save: %w", err)
	}
	var s game.State
	if err := json.Unmarshal(migrated, &s); err != nil {
		return game.State{}, fmt.Errorf("failed to decode game state: %w", err)
	}
	s.Version = game.CurrentVersion
	return s, nil
}

// VersionOf reads the version tag of a raw document.
func VersionOf(doc map[string]any) int {
	v, ok := doc["version"].(float64)
	if !ok || v < 1 {
		return 1
	}
	return int(v)
}
