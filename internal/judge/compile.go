package judge

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// CompileOutcome is the Compile Stage's contribution to a JudgeResult:
// only status, error_message and time_used_ms are meaningful here,
// the rest of JudgeResult stays zero/empty per spec.md §4.4.
type CompileOutcome struct {
	Status      Status
	ErrorMsg    string
	TimeUsedMs  int
}

// compilerArgs mirrors original_source/judge_core_cgroup.cpp's fixed
// g++ invocation.
func compilerArgs(source, out string) []string {
	return []string{"-g", "-std=c++20", "-O2", "-Wall", "-Wextra", "-Wshadow", "-Wconversion", "-Wfloat-equal", source, "-o", out}
}

// Compile invokes g++ against source, writing the executable to out.
// Grounded on judge_core_cgroup.cpp's compileProgram.
func Compile(source, out string, timeoutMs int) CompileOutcome {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, "g++", compilerArgs(source, out)...)
	combined, runErr := cmd.CombinedOutput()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		return CompileOutcome{Status: StatusCE, ErrorMsg: "Compilation timeout", TimeUsedMs: int(elapsed.Milliseconds())}
	}
	if runErr != nil {
		msg := string(combined)
		if msg == "" {
			msg = fmt.Sprintf("compiler invocation failed: %v", runErr)
		}
		return CompileOutcome{Status: StatusCE, ErrorMsg: msg, TimeUsedMs: int(elapsed.Milliseconds())}
	}

	return CompileOutcome{Status: StatusOK, TimeUsedMs: int(elapsed.Milliseconds())}
}
