package filestore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWorld_JSON(t *testing.T) {
	path := writeFile(t, "world.json", `{
		"agents": ["Anne", "Sally"],
		"objects": ["marble"],
		"containers": ["basket", "box"],
		"locations": ["kitchen", "garden"]
	}`)

	w, err := LoadWorld(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, domain.WorldDefinition{
		Agents:     []string{"Anne", "Sally"},
		Objects:    []string{"marble"},
		Containers: []string{"basket", "box"},
		Locations:  []string{"kitchen", "garden"},
	}, w)
}

func TestLoadWorld_YAML(t *testing.T) {
	path := writeFile(t, "world.yaml", `
agents: [Anne, Sally]
objects: [marble, keys]
containers: [basket, box]
locations: [kitchen]
`)

	w, err := LoadWorld(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"marble", "keys"}, w.Objects)
	assert.Equal(t, []string{"kitchen"}, w.Locations)
}

func TestLoadWorld_Invalid(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"missing kind", "world.json", `{"agents":["A"],"objects":["O"],"containers":["C"]}`},
		{"empty list", "world.json", `{"agents":[],"objects":["O"],"containers":["C"],"locations":["L"]}`},
		{"duplicate name", "world.json", `{"agents":["A","A"],"objects":["O"],"containers":["C"],"locations":["L"]}`},
		{"empty name", "world.yaml", "agents: ['']\nobjects: [O]\ncontainers: [C]\nlocations: [L]\n"},
		{"not an object", "world.json", `["A"]`},
		{"malformed", "world.json", `{"agents":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWorld(writeFile(t, tt.file, tt.content), zap.NewNop())
			if !errors.Is(err, ErrInvalidWorld) {
				t.Fatalf("expected ErrInvalidWorld, got %v", err)
			}
		})
	}
}

func TestLoadWorld_MissingFallsBackToSynthetic(t *testing.T) {
	w, err := LoadWorld(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, domain.SyntheticWorld(SyntheticWorldSize), w)
	assert.Equal(t, "Agent-0", w.Agents[0])
	assert.Len(t, w.Locations, SyntheticWorldSize)
}
