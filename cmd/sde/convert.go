package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"go-recruiter/pkg/sde"

	"github.com/goccy/go-yaml"
)

// Only the fields the aggregator reads are kept. The raw SDE carries far more.
type yamlType struct {
	GroupID   int32             `yaml:"groupID"`
	Name      map[string]string `yaml:"name"`
	Published bool              `yaml:"published"`
}

type yamlGroup struct {
	CategoryID int32             `yaml:"categoryID"`
	Name       map[string]string `yaml:"name"`
	Published  bool              `yaml:"published"`
}

// convertTypes turns fsd/types.yaml into the types.json read by sde.Service.
func convertTypes(src, destDir string) (int, error) {
	var raw map[int32]yamlType
	if err := readYAML(src, &raw); err != nil {
		return 0, err
	}
	out := make(map[string]*sde.Type, len(raw))
	for id, t := range raw {
		if t.Name["en"] == "" {
			continue
		}
		out[strconv.Itoa(int(id))] = &sde.Type{
			TypeID:    id,
			GroupID:   t.GroupID,
			Name:      t.Name,
			Published: t.Published,
		}
	}
	return len(out), writeJSON(filepath.Join(destDir, "types.json"), out)
}

// convertGroups turns fsd/groups.yaml into groups.json.
func convertGroups(src, destDir string) (int, error) {
	var raw map[int32]yamlGroup
	if err := readYAML(src, &raw); err != nil {
		return 0, err
	}
	out := make(map[string]*sde.Group, len(raw))
	for id, g := range raw {
		out[strconv.Itoa(int(id))] = &sde.Group{
			GroupID:    id,
			CategoryID: g.CategoryID,
			Name:       g.Name,
			Published:  g.Published,
		}
	}
	return len(out), writeJSON(filepath.Join(destDir, "groups.json"), out)
}

func readYAML(src string, dest any) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read YAML file %s: %w", src, err)
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal YAML from %s: %w", src, err)
	}
	return nil
}

func writeJSON(dest string, v any) error {
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON for %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON file %s: %w", dest, err)
	}
	slog.Info("Wrote reference file", "path", dest)
	return nil
}
