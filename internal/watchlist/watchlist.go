// Package watchlist manages the group→URL watchlist that drives each poll
// round. The list lives in a user-editable YAML file; a starter copy with a
// template group is embedded and written on first run.
package watchlist

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/CosmoTheDev/tfwatch/models"
)

//go:embed defaults/watchlist.yaml
var starter []byte

// ReservedGroup is the template entry shipped in the starter watchlist.
// Its URLs are placeholders and are never scheduled for polling.
const ReservedGroup = "exampleGroup"

// Watchlist maps group names to ordered sequences of join-page URLs.
type Watchlist struct {
	Groups map[string][]string `yaml:"groups"`
}

// Load reads the watchlist at path, falling back to the embedded starter
// when the file does not exist yet. A present-but-malformed file is an
// error rather than an empty list.
func Load(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("watchlist: reading %s: %w", path, err)
		}
		data = starter
	}

	var w Watchlist
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("watchlist: parsing %s: %w", path, err)
	}
	if w.Groups == nil {
		w.Groups = map[string][]string{}
	}
	return &w, nil
}

// Init writes the embedded starter watchlist to path if nothing is there.
// Safe to call on every startup; never overwrites user edits.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("watchlist: create dir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, starter, 0o640); err != nil {
		return fmt.Errorf("watchlist: write starter %s: %w", path, err)
	}
	return nil
}

// Targets flattens the watchlist into one Target per URL, excluding the
// reserved template group and blank entries. Groups are visited in sorted
// order for a stable fan-out; URL order within a group is preserved.
func (w *Watchlist) Targets() []models.Target {
	names := make([]string, 0, len(w.Groups))
	for name := range w.Groups {
		if name == ReservedGroup {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var targets []models.Target
	for _, name := range names {
		for _, url := range w.Groups[name] {
			url = strings.TrimSpace(url)
			if url == "" {
				continue
			}
			targets = append(targets, models.Target{Group: name, URL: url})
		}
	}
	return targets
}

// GroupNames returns the pollable group names in sorted order.
func (w *Watchlist) GroupNames() []string {
	names := make([]string, 0, len(w.Groups))
	for name := range w.Groups {
		if name == ReservedGroup {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
