package judge

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// childEntrypointEnv names the environment variables the re-exec'd
// child reads before replacing its own image with the compiled
// executable. Grounded on the teacher's re-exec-as-child pattern
// (cmd/child.go, internal/sandbox.ChildMain) but stripped of the
// chroot/namespace/ptrace machinery spec.md's Non-goals exclude.
const (
	envExecTarget = "JUDGE_EXEC_TARGET"
	envCPUSoft    = "JUDGE_RLIMIT_CPU_SOFT"
	envCPUHard    = "JUDGE_RLIMIT_CPU_HARD"
	envStack      = "JUDGE_RLIMIT_STACK"
	envFSize      = "JUDGE_RLIMIT_FSIZE"
)

// ChildEntrypoint is run inside the re-exec'd process, after fork but
// before the target program's image is loaded. It may only perform
// async-signal-safe-adjacent work: setrlimit and exec. Standard
// input/output/error are already wired to the input file and the two
// pipes by the parent's os/exec plumbing; this function never touches
// them directly. Registered behind the hidden "__judge-exec__" cobra
// command.
func ChildEntrypoint() {
	target := os.Getenv(envExecTarget)
	if target == "" {
		os.Exit(1)
	}

	setRlimit := func(resource int, cur, max uint64) {
		_ = unix.Setrlimit(resource, &unix.Rlimit{Cur: cur, Max: max})
	}

	cpuSoft := parseEnvUint(envCPUSoft)
	setRlimit(unix.RLIMIT_CPU, cpuSoft, parseEnvUint(envCPUHard))
	stack := parseEnvUint(envStack)
	setRlimit(unix.RLIMIT_STACK, stack, stack)
	fsize := parseEnvUint(envFSize)
	setRlimit(unix.RLIMIT_FSIZE, fsize, fsize)
	setRlimit(unix.RLIMIT_NPROC, 1, 1)

	if err := unix.Exec(target, []string{target}, os.Environ()); err != nil {
		os.Exit(1)
	}
}

func parseEnvUint(name string) uint64 {
	var v uint64
	_, _ = fmt.Sscan(os.Getenv(name), &v)
	return v
}

// RunResult bundles the Run Stage's raw outcome with the values the
// rest of the pipeline needs beyond classification.
type RunResult struct {
	Outcome      RunOutcome
	StdoutBytes  []byte
	AllocatedCPU string
	Warning      string
}

// Run implements spec.md §4.5: fork (via self re-exec), redirect
// descriptors, install per-process rlimits in the child, enroll into
// cg, force CPU affinity, drain stdout/stderr under a deadline, reap.
func Run(executable, inputPath string, l Limits, cg *Cgroup, sel *CPUSelector) (RunResult, error) {
	inFile, err := os.Open(inputPath)
	if err != nil {
		return RunResult{}, fmt.Errorf("open input file: %w", err)
	}
	defer inFile.Close()

	outR, outW, err := os.Pipe()
	if err != nil {
		return RunResult{}, fmt.Errorf("create stdout pipe: %w", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		outR.Close()
		outW.Close()
		return RunResult{}, fmt.Errorf("create stderr pipe: %w", err)
	}

	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}

	cpuSoft := int(math.Ceil(float64(l.TimeLimitMs) / 1000.0))
	cmd := exec.Command(self, "__judge-exec__")
	cmd.Stdin = inFile
	cmd.Stdout = outW
	cmd.Stderr = errW
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("%s=%s", envExecTarget, executable),
		fmt.Sprintf("%s=%d", envCPUSoft, cpuSoft),
		fmt.Sprintf("%s=%d", envCPUHard, cpuSoft+1),
		fmt.Sprintf("%s=%d", envStack, l.StackLimitBytes),
		fmt.Sprintf("%s=%d", envFSize, l.OutputLimitBytes),
	)
	cmd.SysProcAttr = &unix.SysProcAttr{Pdeathsig: unix.SIGKILL}

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		outR.Close()
		outW.Close()
		errR.Close()
		errW.Close()
		return RunResult{}, fmt.Errorf("fork failed: %w", err)
	}
	pid := cmd.Process.Pid

	result := RunResult{}

	if err := cg.AddProcess(pid); err != nil {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
		outR.Close()
		outW.Close()
		errR.Close()
		errW.Close()
		return RunResult{}, fmt.Errorf("enroll child into cgroup: %w", err)
	}

	core := cg.AllocatedCPU()
	result.AllocatedCPU = core
	if core != "" {
		if coreID, convErr := parseCoreID(core); convErr == nil {
			if affErr := ForceCPUBinding(pid, coreID); affErr != nil {
				result.Warning = "Warning: Failed to set CPU affinity; "
			}
		}
	}
	_ = sel // selector already consulted by Cgroup.SetCPULimit; kept for symmetry with spec.md's component boundary

	outW.Close()
	errW.Close()

	deadline := time.Now().Add(time.Duration(cpuSoft+1) * time.Second)

	var stdoutBuf, stderrBuf capBuffer
	stdoutBuf.limit = l.OutputLimitBytes
	stderrBuf.limit = 64 * 1024

	sampleStop := make(chan struct{})
	go sampleMemory(cg, sampleStop)

	done := make(chan struct{}, 2)
	go drainPipe(outR, &stdoutBuf, deadline, done)
	go drainPipe(errR, &stderrBuf, deadline, done)
	<-done
	<-done
	close(sampleStop)

	_ = cmd.Wait()
	elapsed := time.Since(startTime)

	ps := cmd.ProcessState
	ws, _ := ps.Sys().(syscall.WaitStatus)
	var ruMaxrssBytes int64
	if ru, ok := ps.SysUsage().(*syscall.Rusage); ok {
		ruMaxrssBytes = int64(ru.Maxrss) * 1024
	}

	memBytes, ok := cg.MemoryPeak()
	if !ok {
		memBytes = ruMaxrssBytes
		slog.Debug("memory.peak unavailable, using rusage maxrss", "path", cg.Path(), "bytes", memBytes)
	}

	result.Outcome = RunOutcome{
		Exited:       ws.Exited(),
		ExitCode:     ws.ExitStatus(),
		Signaled:     ws.Signaled(),
		SignalNumber: int(ws.Signal()),
		TimeUsedMs:   int(elapsed.Milliseconds()),
		MemUsedBytes: memBytes,
		OutputLen:    stdoutBuf.total,
		StderrTail:   stderrBuf.buf.String(),
	}
	result.StdoutBytes = stdoutBuf.buf.Bytes()

	return result, nil
}

func parseCoreID(core string) (int, error) {
	var n int
	_, err := fmt.Sscanf(core, "%d", &n)
	return n, err
}

// capBuffer accumulates up to limit bytes while counting every byte
// actually seen, so output_len can exceed the stored stdout_content
// length and still drive OLE classification (spec.md §3: stdout is
// captured "up to the output limit" but output_len reflects the true
// total).
type capBuffer struct {
	buf   bytes.Buffer
	limit int64
	total int64
}

func (c *capBuffer) write(p []byte) {
	c.total += int64(len(p))
	if remaining := c.limit - int64(c.buf.Len()); remaining > 0 {
		if int64(len(p)) > remaining {
			p = p[:remaining]
		}
		c.buf.Write(p)
	}
}

// sampleMemory logs memory.current at a fixed interval while the
// child runs, giving an operator visibility into the run's memory
// trajectory before it hits memory.peak at reap time. Stops as soon
// as stop is closed.
func sampleMemory(cg *Cgroup, stop <-chan struct{}) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if cur, ok := cg.CurrentMemory(); ok {
				slog.Debug("cgroup memory sample", "path", cg.Path(), "current_bytes", cur)
			}
		}
	}
}

// drainPipe is the Go-idiomatic equivalent of spec.md §4.5's
// readiness-selection loop: os.Pipe() file descriptors are pollable,
// so SetReadDeadline gives the same "done when not-readable-by-
// deadline or read returns 0" behavior a select()-based loop would,
// without needing a manual multiplexer.
func drainPipe(r *os.File, into *capBuffer, deadline time.Time, done chan<- struct{}) {
	defer func() {
		r.Close()
		done <- struct{}{}
	}()
	_ = r.SetReadDeadline(deadline)
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			into.write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}
