package filestore

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SyntheticWorldSize is the per-kind catalog size used when no world file exists.
const SyntheticWorldSize = 10

var ErrInvalidWorld = errors.New("invalid world catalog")

//go:embed world.schema.json
var worldSchemaSource string

var worldSchema = jsonschema.MustCompileString("world.schema.json", worldSchemaSource)

// LoadWorld reads a world catalog from a JSON or YAML file. A missing file
// falls back to a synthetic catalog.
func LoadWorld(path string, logger *zap.Logger) (domain.WorldDefinition, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("world catalog not found, using synthetic identifiers",
			zap.String("path", path),
			zap.Int("size", SyntheticWorldSize),
		)
		return domain.SyntheticWorld(SyntheticWorldSize), nil
	}
	if err != nil {
		return domain.WorldDefinition{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseWorldYAML(data)
	default:
		return ParseWorldJSON(data)
	}
}

func ParseWorldJSON(data []byte) (domain.WorldDefinition, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.WorldDefinition{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	if err := worldSchema.Validate(doc); err != nil {
		return domain.WorldDefinition{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	var w domain.WorldDefinition
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.WorldDefinition{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	return w, nil
}

func ParseWorldYAML(data []byte) (domain.WorldDefinition, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.WorldDefinition{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	if err := worldSchema.Validate(doc); err != nil {
		return domain.WorldDefinition{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	var w domain.WorldDefinition
	if err := yaml.Unmarshal(data, &w); err != nil {
		return domain.WorldDefinition{}, fmt.Errorf("%w: %v", ErrInvalidWorld, err)
	}
	return w, nil
}
