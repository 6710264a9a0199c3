package provision

import (
	"os"
	"testing"

	"github.com/abhisek/gauntlet/internal/logging"
)

func TestAnsibleTagArg(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"setup", `ANSIBLE_ARGS=--tags "setup"`},
		{"level4a", `ANSIBLE_ARGS=--tags "level4a"`},
	}
	for _, tt := range tests {
		if got := ansibleTagArg(tt.tag); got != tt.want {
			t.Errorf("ansibleTagArg(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestNewVagrantDefaultsOutput(t *testing.T) {
	v := NewVagrant(t.TempDir(), nil, logging.NewNop())
	if v.out != os.Stdout {
		t.Error("nil output writer must default to stdout")
	}
}
