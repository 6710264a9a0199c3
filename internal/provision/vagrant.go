package provision

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Vagrant provisions boxes by running the vagrant CLI in the game
// directory (the one holding the Vagrantfile). Ansible receives the
// provisioning tag through ANSIBLE_ARGS so only the tasks for the current
// level run.
type Vagrant struct {
	dir    string
	out    io.Writer
	logger *slog.Logger
}

// NewVagrant creates a Vagrant provisioner rooted at dir. Subprocess
// output goes to out; pass a log file when the terminal is owned by the
// TUI, or nil for stdout.
func NewVagrant(dir string, out io.Writer, logger *slog.Logger) *Vagrant {
	if out == nil {
		out = os.Stdout
	}
	return &Vagrant{dir: dir, out: out, logger: logger}
}

// BringUp runs `vagrant up [boxes...] --provision` with the Ansible tag
// set. Runs regularly take many minutes.
func (v *Vagrant) BringUp(ctx context.Context, boxes []string, tag string) (time.Duration, error) {
	args := []string{"up"}
	if len(boxes) > 0 {
		args = append(args, boxes...)
		args = append(args, "--provision")
	}

	cmd := exec.CommandContext(ctx, "vagrant", args...)
	cmd.Dir = v.dir
	cmd.Env = append(os.Environ(), ansibleTagArg(tag))
	cmd.Stdout = v.out
	cmd.Stderr = v.out

	v.logger.Info("provisioning", "tag", tag, "boxes", boxes)
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, fmt.Errorf("vagrant up (tag %s): %w", tag, err)
	}
	v.logger.Info("provisioned", "tag", tag, "elapsed", elapsed)
	return elapsed, nil
}

// TearDown runs `vagrant destroy -f`, removing every machine.
func (v *Vagrant) TearDown(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "vagrant", "destroy", "-f")
	cmd.Dir = v.dir
	cmd.Stdout = v.out
	cmd.Stderr = v.out

	v.logger.Info("tearing down all boxes")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("vagrant destroy: %w", err)
	}
	return nil
}

func ansibleTagArg(tag string) string {
	return fmt.Sprintf("ANSIBLE_ARGS=--tags %q", tag)
}
