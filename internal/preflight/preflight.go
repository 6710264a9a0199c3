// Package preflight verifies that the tools the provisioner relies on are
// installed in usable versions before a game is started.
package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"
)

// Minimum supported tool versions.
const (
	MinVagrant    = "v2.2.0"
	MinVirtualBox = "v6.0.0"
)

// Result is the outcome of one tool probe.
type Result struct {
	Tool   string
	OK     bool
	Detail string
}

// runner executes a probe command and returns its combined output.
// Swapped out in tests.
type runner func(ctx context.Context, name string, args ...string) (string, error)

func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// Check probes vagrant and VirtualBox and returns one Result per tool.
func Check(ctx context.Context) []Result {
	return checkWith(ctx, execRunner)
}

func checkWith(ctx context.Context, run runner) []Result {
	results := make([]Result, 0, 2)

	out, err := run(ctx, "vagrant", "--version")
	if err != nil {
		results = append(results, Result{Tool: "vagrant", Detail: "not found in PATH"})
	} else {
		results = append(results, evalVagrant(out))
	}

	out, err = run(ctx, "vboxmanage", "--version")
	if err != nil {
		results = append(results, Result{Tool: "virtualbox", Detail: "vboxmanage not found in PATH"})
	} else {
		results = append(results, evalVirtualBox(out))
	}

	return results
}

// evalVagrant parses output like "Vagrant 2.3.4".
func evalVagrant(out string) Result {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) < 2 {
		return Result{Tool: "vagrant", Detail: fmt.Sprintf("unrecognized version output %q", out)}
	}
	v := "v" + fields[len(fields)-1]
	if !semver.IsValid(v) {
		return Result{Tool: "vagrant", Detail: fmt.Sprintf("unrecognized version %q", fields[len(fields)-1])}
	}
	if semver.Compare(v, MinVagrant) < 0 {
		return Result{Tool: "vagrant", Detail: fmt.Sprintf("version %s is below the minimum %s", v, MinVagrant)}
	}
	return Result{Tool: "vagrant", OK: true, Detail: "version " + v}
}

// evalVirtualBox parses output like "6.1.38r153438" or "7.0.12".
func evalVirtualBox(out string) Result {
	raw := strings.TrimSpace(out)
	if i := strings.IndexByte(raw, 'r'); i > 0 {
		raw = raw[:i]
	}
	v := "v" + raw
	if !semver.IsValid(v) {
		return Result{Tool: "virtualbox", Detail: fmt.Sprintf("unrecognized version output %q", strings.TrimSpace(out))}
	}
	if semver.Compare(v, MinVirtualBox) < 0 {
		return Result{Tool: "virtualbox", Detail: fmt.Sprintf("version %s is below the minimum %s", v, MinVirtualBox)}
	}
	return Result{Tool: "virtualbox", OK: true, Detail: "version " + v}
}
