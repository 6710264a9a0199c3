// Package config loads the scenario's YAML files into the domain types.
// Every file is schema-validated before decoding; declaration order of
// branches, hints, and requirement candidates is preserved because it is
// meaningful (display order, adaptive-resolution priority).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/gauntlet/internal/branch"
	"github.com/abhisek/gauntlet/internal/flags"
	"github.com/abhisek/gauntlet/internal/hints"
	"github.com/abhisek/gauntlet/internal/levelgraph"
)

// Scenario file names inside the resources directory.
const (
	LevelsFile       = "levels.yml"
	HintsFile        = "hints.yml"
	KeysFile         = "keys.yml"
	RequirementsFile = "requirements.yml"
	ToolsFile        = "tools.yml"
)

// Bundle is the fully loaded scenario configuration.
type Bundle struct {
	Graph        *levelgraph.Graph
	Hints        hints.Catalog
	Flags        flags.Registry
	Requirements branch.Table
	Tools        []string
}

// Load reads and validates all scenario files in dir.
func Load(dir string) (*Bundle, error) {
	graph, err := LoadLevels(filepath.Join(dir, LevelsFile))
	if err != nil {
		return nil, err
	}
	catalog, err := LoadHints(filepath.Join(dir, HintsFile))
	if err != nil {
		return nil, err
	}
	registry, err := LoadFlags(filepath.Join(dir, KeysFile))
	if err != nil {
		return nil, err
	}
	table, err := LoadRequirements(filepath.Join(dir, RequirementsFile))
	if err != nil {
		return nil, err
	}
	tools, err := LoadTools(filepath.Join(dir, ToolsFile))
	if err != nil {
		return nil, err
	}

	// Requirement candidates must name branches the graph actually has,
	// otherwise the adaptive resolver routes into nothing.
	for level, candidates := range table {
		names := graph.BranchNames(level)
		for _, c := range candidates {
			if !slices.Contains(names, c.Name) {
				return nil, fmt.Errorf("%s: level %d candidate %q is not a branch in %s",
					RequirementsFile, level, c.Name, LevelsFile)
			}
		}
	}

	return &Bundle{
		Graph:        graph,
		Hints:        catalog,
		Flags:        registry,
		Requirements: table,
		Tools:        tools,
	}, nil
}

// LoadLevels reads the level graph file.
func LoadLevels(path string) (*levelgraph.Graph, error) {
	root, err := readMapping(path, "levels", levelsSchema)
	if err != nil {
		return nil, err
	}

	levels := make(map[int][]levelgraph.Branch)
	for i := 0; i < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		n, err := levelNumber(key.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		var branches []levelgraph.Branch
		for j := 0; j < len(val.Content); j += 2 {
			bKey, bVal := val.Content[j], val.Content[j+1]
			var boxes []string
			if err := bVal.Decode(&boxes); err != nil {
				return nil, fmt.Errorf("%s: boxes of %s: %w", path, bKey.Value, err)
			}
			branches = append(branches, levelgraph.Branch{Name: bKey.Value, Boxes: boxes})
		}
		levels[n] = branches
	}

	graph, err := levelgraph.New(levels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return graph, nil
}

// LoadHints reads the hint catalog. The outer per-level grouping in the
// file is flattened away: the catalog is keyed by full level name.
func LoadHints(path string) (hints.Catalog, error) {
	root, err := readMapping(path, "hints", hintsSchema)
	if err != nil {
		return nil, err
	}

	catalog := make(hints.Catalog)
	for i := 0; i < len(root.Content); i += 2 {
		val := root.Content[i+1]
		for j := 0; j < len(val.Content); j += 2 {
			nameKey, hintMap := val.Content[j], val.Content[j+1]
			var hs []hints.Hint
			for k := 0; k < len(hintMap.Content); k += 2 {
				hs = append(hs, hints.Hint{
					Name: hintMap.Content[k].Value,
					Text: hintMap.Content[k+1].Value,
				})
			}
			catalog[nameKey.Value] = hs
		}
	}
	return catalog, nil
}

// LoadFlags reads the per-level expected flags.
func LoadFlags(path string) (flags.Registry, error) {
	root, err := readMapping(path, "keys", keysSchema)
	if err != nil {
		return nil, err
	}

	registry := make(flags.Registry)
	for i := 0; i < len(root.Content); i += 2 {
		n, err := levelNumber(root.Content[i].Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		registry[n] = root.Content[i+1].Value
	}
	return registry, nil
}

// LoadRequirements reads the adaptive-routing candidate table. Each level
// maps to an ordered list of [branchName, requirement] pairs where the
// requirement is either null (default branch) or [timeLimitSeconds, skill].
func LoadRequirements(path string) (branch.Table, error) {
	root, err := readMapping(path, "requirements", requirementsSchema)
	if err != nil {
		return nil, err
	}

	table := make(branch.Table)
	for i := 0; i < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		n, err := levelNumber(key.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		var candidates []branch.Candidate
		for _, pair := range val.Content {
			name := pair.Content[0].Value
			reqNode := pair.Content[1]

			c := branch.Candidate{Name: name}
			if reqNode.Tag != "!!null" {
				var seconds float64
				if err := reqNode.Content[0].Decode(&seconds); err != nil {
					return nil, fmt.Errorf("%s: time limit of %s: %w", path, name, err)
				}
				c.Requirements = &branch.Requirement{
					TimeLimit: time.Duration(seconds * float64(time.Second)),
					Skill:     reqNode.Content[1].Value,
				}
			}
			candidates = append(candidates, c)
		}
		table[n] = candidates
	}
	return table, nil
}

// LoadTools reads the quiz tool list.
func LoadTools(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := validateDoc("tools", toolsSchema, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var tools []string
	if err := yaml.Unmarshal(raw, &tools); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tools, nil
}

// readMapping reads a YAML file, validates it against a schema, and returns
// the root mapping node with document order intact.
func readMapping(path, schemaName string, definition map[string]any) (*yaml.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := validateDoc(schemaName, definition, raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: document is not a mapping", path)
	}
	return doc.Content[0], nil
}

// levelNumber extracts N from a "levelN" key.
func levelNumber(key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(key, "level"))
	if err != nil {
		return 0, fmt.Errorf("bad level key %q", key)
	}
	return n, nil
}
