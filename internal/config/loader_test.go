package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const levelsYAML = `level1:
  level1: [attacker]
level2:
  level2: [attacker, web]
level3:
  level3a: [web]
  level3b: [web, db]
`

const hintsYAML = `level2:
  level2:
    ports: "Scan all TCP ports."
    creds: "The admin reuses a password."
level3:
  level3a:
    sqli: "The search form does not sanitize quotes."
  level3b:
    pivot: "The database host trusts the web host."
`

const keysYAML = `level1: FLAG{recon}
level2: FLAG{foothold}
level3: FLAG{root}
`

const requirementsYAML = `level2:
  - [level2, ~]
level3:
  - [level3a, ~]
  - [level3b, [600, nmap]]
`

const toolsYAML = `- nmap
- wireshark
- metasploit
`

// writeScenario writes a complete scenario directory for tests.
func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		LevelsFile:       levelsYAML,
		HintsFile:        hintsYAML,
		KeysFile:         keysYAML,
		RequirementsFile: requirementsYAML,
		ToolsFile:        toolsYAML,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	bundle, err := Load(writeScenario(t))
	require.NoError(t, err)

	assert.Equal(t, 3, bundle.Graph.MaxLevel())
	assert.True(t, bundle.Graph.IsForked(3))
	assert.Equal(t, []string{"level3a", "level3b"}, bundle.Graph.BranchNames(3))

	assert.Equal(t, "FLAG{foothold}", bundle.Flags[2])
	assert.Equal(t, []string{"nmap", "wireshark", "metasploit"}, bundle.Tools)
}

func TestLoadLevelsPreservesBranchOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LevelsFile)
	// Declare b before a; the graph must keep that order.
	content := `level1:
  level1b: [web]
  level1a: [db]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	g, err := LoadLevels(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"level1b", "level1a"}, g.BranchNames(1))
}

func TestLoadHintsOrderAndFlattening(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, HintsFile)
	require.NoError(t, os.WriteFile(path, []byte(hintsYAML), 0o644))

	catalog, err := LoadHints(path)
	require.NoError(t, err)

	hs := catalog["level2"]
	require.Len(t, hs, 2)
	assert.Equal(t, "ports", hs[0].Name)
	assert.Equal(t, "creds", hs[1].Name)

	require.Len(t, catalog["level3b"], 1)
	assert.Equal(t, "The database host trusts the web host.", catalog["level3b"][0].Text)
}

func TestLoadRequirements(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RequirementsFile)
	require.NoError(t, os.WriteFile(path, []byte(requirementsYAML), 0o644))

	table, err := LoadRequirements(path)
	require.NoError(t, err)

	require.Len(t, table[3], 2)
	assert.Equal(t, "level3a", table[3][0].Name)
	assert.Nil(t, table[3][0].Requirements)

	req := table[3][1].Requirements
	require.NotNil(t, req)
	assert.Equal(t, 600*time.Second, req.TimeLimit)
	assert.Equal(t, "nmap", req.Skill)
}

func TestLoadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		load    func(path string) error
	}{
		{
			name: "levels with non-list boxes",
			file: LevelsFile,
			content: "level1:\n  level1: not-a-list\n",
			load: func(p string) error { _, err := LoadLevels(p); return err },
		},
		{
			name: "levels with bad branch prefix",
			file: LevelsFile,
			content: "level1:\n  stage1: [a]\n",
			load: func(p string) error { _, err := LoadLevels(p); return err },
		},
		{
			name: "keys with non-string flag",
			file: KeysFile,
			content: "level1: [nope]\n",
			load: func(p string) error { _, err := LoadFlags(p); return err },
		},
		{
			name: "requirements with one-element pair",
			file: RequirementsFile,
			content: "level2:\n  - [level2]\n",
			load: func(p string) error { _, err := LoadRequirements(p); return err },
		},
		{
			name: "tools not a list",
			file: ToolsFile,
			content: "nmap: yes\n",
			load: func(p string) error { _, err := LoadTools(p); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			assert.Error(t, tt.load(path))
		})
	}
}

func TestLoadRejectsUnknownRequirementBranch(t *testing.T) {
	dir := writeScenario(t)
	bad := `level3:
  - [level3z, ~]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, RequirementsFile), []byte(bad), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level3z")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
