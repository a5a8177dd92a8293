package judge

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sys/unix"
)

// CPUSelector disperses concurrent judges across cores without
// coordination, per spec.md §4.3: (hash(cgroup_name) XOR
// monotonic_ticks) mod N. Grounded on
// original_source/judge_core_cgroup.cpp's selectCpuForBinding.
type CPUSelector struct {
	count int
}

// NewCPUSelector counts "processor" lines in /proc/cpuinfo: 1 if the
// file can't be read, 0 if it reads clean but lists no cores.
func NewCPUSelector() *CPUSelector {
	return &CPUSelector{count: cpuCount()}
}

func cpuCount() int {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return 1
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), "processor") {
			n++
		}
	}
	return n
}

// Select returns a decimal core index string. When the core count is
// zero (no processor lines despite a readable file) it falls back to
// "0" rather than dividing by zero.
func (s *CPUSelector) Select(cgroupName string) string {
	if s.count <= 0 {
		return "0"
	}
	h := xxhash.Sum64String(cgroupName)
	var ts unix.Timespec
	_ = unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	idx := (h ^ uint64(ts.Nano())) % uint64(s.count)
	return fmt.Sprintf("%d", idx)
}

// ForceCPUBinding imposes a single-core affinity mask on pid,
// defense-in-depth atop cpuset.cpus. Failure is non-fatal to the
// caller.
func ForceCPUBinding(pid int, cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(pid, &set)
}
