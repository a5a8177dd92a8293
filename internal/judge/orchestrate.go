package judge

import (
	"fmt"
	"log/slog"
	"os"
)

// Judge implements the Entry Orchestrator of spec.md §4.8: load limits
// -> compile -> run -> destroy artifact. It always returns a single
// JudgeResult, which the caller passes to Encode; any unexpected
// failure is mapped to SE.
func Judge(limitsPath, sourcePath, inputPath string) (result JudgeResult) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("judge core recovered from panic", "panic", rec)
			result = JudgeResult{
				Status:       StatusSE,
				ErrorMessage: fmt.Sprintf("System error: %v", rec),
			}
		}
	}()

	return JudgeWithLimits(LoadLimits(limitsPath), sourcePath, inputPath)
}

// JudgeWithLimits runs the same compile -> run -> classify pipeline as
// Judge, but against an already-resolved Limits value instead of a
// limits file. Judge calls it after LoadLimits; the daemon/client layer
// does not, it calls Compile once and RunAndClassify per test case.
func JudgeWithLimits(limits Limits, sourcePath, inputPath string) JudgeResult {
	executable := sourcePath + ".out"
	defer os.Remove(executable)

	compiled := Compile(sourcePath, executable, limits.CompileTimeoutMs)
	if compiled.Status != StatusOK {
		return JudgeResult{
			Status:       StatusCE,
			TimeUsedMs:   compiled.TimeUsedMs,
			ErrorMessage: compiled.ErrorMsg,
		}
	}

	result, err := RunAndClassify(executable, inputPath, limits)
	if err != nil {
		return JudgeResult{
			Status:       StatusSE,
			ExitCode:     -1,
			ErrorMessage: "System error: " + err.Error(),
		}
	}
	return result
}

// RunAndClassify runs an already-compiled executable and classifies
// the verdict, without touching the Compile Stage. The daemon/client
// layer calls this once per test case against one compiled artifact,
// rather than recompiling through JudgeWithLimits for every case.
func RunAndClassify(executable, inputPath string, limits Limits) (JudgeResult, error) {
	sel := NewCPUSelector()
	cg := NewCgroup()
	defer cg.Destroy()

	if err := cg.Create(); err != nil {
		return JudgeResult{}, fmt.Errorf("create cgroup: %w", err)
	}
	if err := cg.SetMemoryLimit(limits.MemoryLimitBytes); err != nil {
		return JudgeResult{}, fmt.Errorf("set memory limit: %w", err)
	}
	if _, err := cg.SetCPULimit(sel); err != nil {
		return JudgeResult{}, fmt.Errorf("set cpu limit: %w", err)
	}

	run, err := Run(executable, inputPath, limits, cg, sel)
	if err != nil {
		return JudgeResult{}, err
	}

	status, exitCode, errMsg := Classify(run.Outcome, limits)
	if run.Warning != "" {
		errMsg = run.Warning + errMsg
	}

	return JudgeResult{
		Status:        status,
		TimeUsedMs:    run.Outcome.TimeUsedMs,
		MemUsedBytes:  run.Outcome.MemUsedBytes,
		ExitCode:      exitCode,
		ErrorMessage:  normalizeNewlines(errMsg),
		StdoutContent: string(run.StdoutBytes),
		OutputLen:     run.Outcome.OutputLen,
		AllocatedCPU:  run.AllocatedCPU,
	}, nil
}

// normalizeNewlines resolves spec.md §9's stray-artifact open question:
// collapse an accidental literal two-character "\n" into a real
// newline before the encoder applies its own escape-on-serialize pass.
func normalizeNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == 'n' {
			out = append(out, '\n')
			i++
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
