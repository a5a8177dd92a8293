package judge

import (
	"strconv"
	"strings"
)

// JudgeResult is produced exactly once per invocation, per spec.md §3.
type JudgeResult struct {
	Status        Status
	TimeUsedMs    int
	MemUsedBytes  int64
	ExitCode      int
	ErrorMessage  string
	StdoutContent string
	OutputLen     int64
	AllocatedCPU  string
}

// Encode serializes r with the fixed field order of spec.md §4.7:
// status, time_used, mem_used, exit_code, error_message, stdout,
// output_len, allocated_cpu. Escaping is confined to error_message
// and stdout.
func Encode(r JudgeResult) string {
	var b strings.Builder
	b.WriteString("status: ")
	b.WriteString(string(r.Status))
	b.WriteString("\ntime_used: ")
	b.WriteString(strconv.Itoa(r.TimeUsedMs))
	b.WriteString("\nmem_used: ")
	b.WriteString(strconv.FormatInt(r.MemUsedBytes, 10))
	b.WriteString("\nexit_code: ")
	b.WriteString(strconv.Itoa(r.ExitCode))
	b.WriteString("\nerror_message: \"")
	b.WriteString(escape(r.ErrorMessage))
	b.WriteString("\"\nstdout: \"")
	b.WriteString(escape(r.StdoutContent))
	b.WriteString("\"\noutput_len: ")
	b.WriteString(strconv.FormatInt(r.OutputLen, 10))
	b.WriteString("\nallocated_cpu: ")
	b.WriteString(r.AllocatedCPU)
	b.WriteString("\n")
	return b.String()
}

// escape applies the byte-level escape rules of spec.md §4.7: double
// quote, backslash, newline, carriage return, tab. Everything else
// passes through unchanged.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
