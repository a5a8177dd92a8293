package judge

import "fmt"

// Status is one of the seven verdicts a JudgeResult may carry.
type Status string

const (
	StatusOK  Status = "OK"
	StatusTLE Status = "TLE"
	StatusMLE Status = "MLE"
	StatusRE  Status = "RE"
	StatusCE  Status = "CE"
	StatusOLE Status = "OLE"
	StatusSE  Status = "SE"
)

// RunOutcome is what the Run Stage hands the Verdict Classifier: the
// raw termination facts, independent of any status decision.
type RunOutcome struct {
	Exited       bool
	ExitCode     int
	Signaled     bool
	SignalNumber int
	TimeUsedMs   int
	MemUsedBytes int64
	OutputLen    int64
	StderrTail   string
}

// Classify implements spec.md §4.6's decision table exactly, including
// the TLE > MLE > OLE > OK tie-break on a clean exit and the
// SIGXCPU/SIGKILL/SIGSEGV/SIGFPE/SIGABRT/default signal switch.
func Classify(o RunOutcome, l Limits) (status Status, exitCode int, errorMsg string) {
	if o.Exited {
		if o.ExitCode == 0 {
			switch {
			case o.TimeUsedMs > l.TimeLimitMs:
				return StatusTLE, 0, ""
			case o.MemUsedBytes > l.MemoryLimitBytes:
				return StatusMLE, 0, ""
			case o.OutputLen > l.OutputLimitBytes:
				return StatusOLE, 0, ""
			default:
				return StatusOK, 0, ""
			}
		}
		msg := fmt.Sprintf("Program exited with non-zero code: %d", o.ExitCode)
		if o.StderrTail != "" {
			msg += "\nStderr: " + o.StderrTail
		}
		return StatusRE, o.ExitCode, msg
	}

	if o.Signaled {
		exitCode = 128 + o.SignalNumber
		overMemory := o.MemUsedBytes > l.MemoryLimitBytes
		switch o.SignalNumber {
		case sigXCPU:
			return StatusTLE, exitCode, "Time limit exceeded (SIGXCPU)"
		case sigKILL:
			if overMemory {
				return StatusMLE, exitCode, "Memory limit exceeded (cgroup)"
			}
			return StatusTLE, exitCode, "Time limit exceeded (SIGKILL)"
		case sigSEGV:
			return StatusRE, exitCode, "Segmentation fault"
		case sigFPE:
			return StatusRE, exitCode, "Floating point exception"
		case sigABRT:
			if overMemory {
				return StatusMLE, exitCode, "Memory limit exceeded (allocation failed)"
			}
			return StatusRE, exitCode, "Program aborted"
		default:
			return StatusRE, exitCode, fmt.Sprintf("Program terminated by signal %d", o.SignalNumber)
		}
	}

	return StatusSE, -1, "System error: child neither exited nor was signaled"
}

// Signal numbers are named independently of golang.org/x/sys/unix so
// that this file, the pure decision table, has no syscall dependency
// of its own; run.go supplies the real values observed from wait4.
const (
	sigXCPU = 24
	sigKILL = 9
	sigSEGV = 11
	sigFPE  = 8
	sigABRT = 6
)
