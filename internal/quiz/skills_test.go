package quiz

import (
	"slices"
	"testing"
)

func TestSkillSet(t *testing.T) {
	s := NewSkillSet()

	s.Add("nmap")
	s.Add("wireshark")
	s.Add("nmap") // duplicate

	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if !s.Has("nmap") || s.Has("metasploit") {
		t.Error("Has gave wrong answers")
	}
	if got := s.All(); !slices.Equal(got, []string{"nmap", "wireshark"}) {
		t.Errorf("All = %v", got)
	}

	known := s.Known()
	if !known["wireshark"] || known["metasploit"] {
		t.Errorf("Known = %v", known)
	}
}
