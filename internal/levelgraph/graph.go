package levelgraph

import (
	"fmt"
	"slices"
)

// Branch is one named variant of a level, with the boxes that must be
// brought online to play it. Unforked levels carry a single branch whose
// name has no suffix (e.g. "level2").
type Branch struct {
	Name  string
	Boxes []string
}

// Graph is the static level map: for each level number, the ordered set of
// branches a learner can land on. It is immutable after construction; all
// queries are read-only and never fail.
type Graph struct {
	levels   map[int][]Branch
	byName   map[int]map[string]int // level -> branch name -> index into levels[level]
	maxLevel int
}

// New builds a Graph from a level -> branches mapping, preserving branch
// order. It returns an error if the mapping violates the structural rules
// checked by validate.
func New(levels map[int][]Branch) (*Graph, error) {
	if err := validate(levels); err != nil {
		return nil, err
	}

	g := &Graph{
		levels: make(map[int][]Branch, len(levels)),
		byName: make(map[int]map[string]int, len(levels)),
	}
	for level, branches := range levels {
		g.levels[level] = slices.Clone(branches)
		idx := make(map[string]int, len(branches))
		for i, b := range branches {
			idx[b.Name] = i
		}
		g.byName[level] = idx
		if level > g.maxLevel {
			g.maxLevel = level
		}
	}
	return g, nil
}

// Exists reports whether the graph contains the given level.
func (g *Graph) Exists(level int) bool {
	_, ok := g.levels[level]
	return ok
}

// IsForked reports whether the level exists and has more than one branch.
func (g *Graph) IsForked(level int) bool {
	return len(g.levels[level]) > 1
}

// BranchNames returns the branch names of a level in declaration order.
// It returns nil for a level that does not exist.
func (g *Graph) BranchNames(level int) []string {
	branches, ok := g.levels[level]
	if !ok {
		return nil
	}
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	return names
}

// BoxesFor returns the ordered box list for a branch of a level.
// Unlike the other queries it can fail: branchName must be an exact branch
// name of the level.
func (g *Graph) BoxesFor(level int, branchName string) ([]string, error) {
	idx, ok := g.byName[level]
	if !ok {
		return nil, fmt.Errorf("level %d not in graph", level)
	}
	i, ok := idx[branchName]
	if !ok {
		return nil, fmt.Errorf("level %d has no branch %q", level, branchName)
	}
	return slices.Clone(g.levels[level][i].Boxes), nil
}

// MaxLevel returns the highest level number in the graph.
func (g *Graph) MaxLevel() int {
	return g.maxLevel
}

// LevelName formats the canonical name of a level plus branch suffix,
// e.g. LevelName(4, "a") == "level4a".
func LevelName(level int, branch string) string {
	return fmt.Sprintf("level%d%s", level, branch)
}
