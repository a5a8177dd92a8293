package judge

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const cgroupRoot = "/sys/fs/cgroup"

// Cgroup owns the lifecycle of one cgroup v2 node scoped to a single
// run: create, configure, enroll, read back usage, destroy. Grounded
// on original_source/judge_core_cgroup.cpp's CgroupManager.
type Cgroup struct {
	name    string
	path    string
	created bool
}

// NewCgroup picks a random "judge_<6 digits>" name; it does not touch
// the filesystem until Create is called.
func NewCgroup() *Cgroup {
	name := fmt.Sprintf("judge_%06d", rand.Intn(900000)+100000)
	return &Cgroup{
		name: name,
		path: filepath.Join(cgroupRoot, name),
	}
}

func (c *Cgroup) Path() string { return c.path }

// Create makes the node directory. Fails if cgroup v2 isn't mounted,
// the caller lacks privilege, or the path already exists.
func (c *Cgroup) Create() error {
	if err := os.Mkdir(c.path, 0755); err != nil {
		return fmt.Errorf("create cgroup node: %w", err)
	}
	c.created = true
	return nil
}

// SetMemoryLimit writes memory.max. Requires a prior successful Create.
func (c *Cgroup) SetMemoryLimit(bytes int64) error {
	if !c.created {
		return fmt.Errorf("set memory limit: cgroup node not created")
	}
	return writeFile(filepath.Join(c.path, "memory.max"), strconv.FormatInt(bytes, 10))
}

// SetCPULimit enables the cpuset controller on the root node (errors
// ignored, it may already be enabled), asks sel for a core index,
// writes it to cpuset.cpus, and mirrors the parent's effective
// cpuset.mems. Returns the core index written, for allocated_cpu.
func (c *Cgroup) SetCPULimit(sel *CPUSelector) (string, error) {
	_ = writeFile(filepath.Join(cgroupRoot, "cgroup.subtree_control"), "+cpuset")

	core := sel.Select(c.name)
	if err := writeFile(filepath.Join(c.path, "cpuset.cpus"), core); err != nil {
		return "", fmt.Errorf("set cpuset.cpus: %w", err)
	}

	mems := "0"
	if data, err := os.ReadFile(filepath.Join(cgroupRoot, "cpuset.mems.effective")); err == nil {
		if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
			mems = trimmed
		}
	}
	if err := writeFile(filepath.Join(c.path, "cpuset.mems"), mems); err != nil {
		return "", fmt.Errorf("set cpuset.mems: %w", err)
	}

	return core, nil
}

// AddProcess enrolls pid into the node via cgroup.procs.
func (c *Cgroup) AddProcess(pid int) error {
	return writeFile(filepath.Join(c.path, "cgroup.procs"), strconv.Itoa(pid))
}

// MemoryPeak reads memory.peak. ok is false when the file is missing
// or unreadable, signalling the caller should fall back to rusage.
func (c *Cgroup) MemoryPeak() (bytes int64, ok bool) {
	data, err := os.ReadFile(filepath.Join(c.path, "memory.peak"))
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CurrentMemory reads memory.current. Sampled periodically by
// sampleMemory in run.go while the child is running; it has no
// corresponding JudgeResult field, it only feeds debug logging.
func (c *Cgroup) CurrentMemory() (bytes int64, ok bool) {
	data, err := os.ReadFile(filepath.Join(c.path, "memory.current"))
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AllocatedCPU reads back cpuset.cpus.
func (c *Cgroup) AllocatedCPU() string {
	data, err := os.ReadFile(filepath.Join(c.path, "cpuset.cpus"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Destroy removes the node directory. Idempotent; failure is
// tolerated silently, the kernel reclaims the node once it is empty.
func (c *Cgroup) Destroy() {
	if !c.created {
		return
	}
	_ = os.Remove(c.path)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content+"\n"), 0644)
}
