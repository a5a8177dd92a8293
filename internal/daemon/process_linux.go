//go:build linux

package daemon

import (
	"fmt"
	"os/exec"
	"strings"
)

// setResourceLimits wraps the client subprocess's argv behind a shell
// ulimit prelude. This is only a coarse backstop against the client
// process itself running away (DB stalls, a compiler that never
// exits) — the compiled submission's own time and memory are bounded
// precisely by internal/judge's cgroup+rlimit Run Stage, which runs
// inside this same client process per test case.
func setResourceLimits(cmd *exec.Cmd, cfg *Config) error {
	addressSpaceKB := int64(STD_MB/1024) * 2048 // ~2GiB ceiling

	quoted := make([]string, len(cmd.Args))
	for i, a := range cmd.Args {
		quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	script := fmt.Sprintf("ulimit -v %d; exec %s", addressSpaceKB, strings.Join(quoted, " "))

	cmd.Path = "/bin/sh"
	cmd.Args = []string{"/bin/sh", "-c", script}
	return nil
}
