package branch

import (
	"errors"
	"testing"
	"time"
)

func TestResolveToken(t *testing.T) {
	names := []string{"level4a", "level4b"}

	tests := []struct {
		token string
		want  string
	}{
		{"a", "a"},
		{"b", "b"},
		{"4a", "a"},
		{"level4a", "a"},
		{"level4b", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ResolveToken(4, names, tt.token)
			if err != nil {
				t.Fatalf("ResolveToken(%q): %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ResolveToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestResolveTokenNotFound(t *testing.T) {
	names := []string{"level4a", "level4b"}

	for _, token := range []string{"z", "4z", "level4z", "level5a"} {
		_, err := ResolveToken(4, names, token)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("ResolveToken(%q) err = %v, want NotFoundError", token, err)
			continue
		}
		if nf.Token != token {
			t.Errorf("NotFoundError.Token = %q, want %q", nf.Token, token)
		}
	}
}

func TestResolveTokenBareSuffixWinsFirst(t *testing.T) {
	// "a" must resolve via the suffix check even though other checks exist.
	got, err := ResolveToken(4, []string{"level4a"}, "a")
	if err != nil || got != "a" {
		t.Errorf("ResolveToken = %q, %v; want \"a\", nil", got, err)
	}
}

func TestResolveAdaptive(t *testing.T) {
	candidates := []Candidate{
		{Name: "level5a"},
		{Name: "level5b", Requirements: &Requirement{TimeLimit: 1000 * time.Second, Skill: "skillX"}},
		{Name: "level5c", Requirements: &Requirement{TimeLimit: 500 * time.Second, Skill: "skillY"}},
	}

	tests := []struct {
		name    string
		elapsed time.Duration
		known   map[string]bool
		want    string
	}{
		{
			// Neither conditioned branch matches: b needs skillX, c needs
			// a sub-500s time. The default wins.
			name:    "falls back to default",
			elapsed: 600 * time.Second,
			known:   map[string]bool{"skillY": true},
			want:    "level5a",
		},
		{
			name:    "fast and skilled takes last match",
			elapsed: 400 * time.Second,
			known:   map[string]bool{"skillX": true, "skillY": true},
			want:    "level5c",
		},
		{
			name:    "later match overrides earlier",
			elapsed: 400 * time.Second,
			known:   map[string]bool{"skillX": true},
			want:    "level5b",
		},
		{
			name:    "time at threshold is not under it",
			elapsed: 500 * time.Second,
			known:   map[string]bool{"skillY": true},
			want:    "level5a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(candidates, tt.elapsed, tt.known)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveSingleCandidateSkipsScan(t *testing.T) {
	// A conditioned lone candidate is returned without evaluating its
	// requirement at all.
	candidates := []Candidate{
		{Name: "level2", Requirements: &Requirement{TimeLimit: time.Second, Skill: "nmap"}},
	}
	got, err := Resolve(candidates, time.Hour, nil)
	if err != nil || got != "level2" {
		t.Errorf("Resolve = %q, %v; want \"level2\", nil", got, err)
	}
}

func TestResolveNoDefaultNoMatch(t *testing.T) {
	candidates := []Candidate{
		{Name: "level3a", Requirements: &Requirement{TimeLimit: time.Minute, Skill: "wireshark"}},
		{Name: "level3b", Requirements: &Requirement{TimeLimit: time.Minute, Skill: "metasploit"}},
	}
	_, err := Resolve(candidates, time.Hour, nil)
	if !errors.Is(err, ErrNoEligibleBranch) {
		t.Errorf("Resolve err = %v, want ErrNoEligibleBranch", err)
	}
}
