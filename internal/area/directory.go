// Package area provides the static, config-backed implementation of the
// area lookup collaborator. The real service lives outside this module;
// query construction only needs id → name resolution.
package area

import (
	"context"
	"fmt"

	"devscanner/internal/config"
	"devscanner/internal/ports"
)

// StaticDirectory resolves area names from configuration.
type StaticDirectory struct {
	names map[string]string
	order []string
}

var _ ports.AreaDirectory = (*StaticDirectory)(nil)

// NewStaticDirectory indexes the configured areas.
func NewStaticDirectory(areas []config.AreaConfig) *StaticDirectory {
	d := &StaticDirectory{names: map[string]string{}}
	for _, a := range areas {
		if a.ID == "" {
			continue
		}
		if _, exists := d.names[a.ID]; !exists {
			d.order = append(d.order, a.ID)
		}
		d.names[a.ID] = a.Name
	}
	return d
}

// AreaName resolves an area identifier to its display name.
func (d *StaticDirectory) AreaName(_ context.Context, areaID string) (string, error) {
	if name, ok := d.names[areaID]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown area %s", areaID)
}

// IDs returns all known area identifiers in configuration order.
func (d *StaticDirectory) IDs() []string {
	return append([]string{}, d.order...)
}
