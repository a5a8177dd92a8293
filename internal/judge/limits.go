package judge

import (
	"os"
	"strconv"
	"strings"
)

// Limits holds the five resource caps applied to a single run. Every
// field is always positive; LoadLimits never fails, it only ever
// substitutes defaults.
type Limits struct {
	TimeLimitMs      int
	MemoryLimitBytes int64
	OutputLimitBytes int64
	CompileTimeoutMs int
	StackLimitBytes  int64
}

const (
	defaultTimeLimitMs      = 1000
	defaultMemoryLimitBytes = 64 * 1024 * 1024
	defaultOutputLimitBytes = 64000000
	defaultCompileTimeoutMs = 30000
	defaultStackLimitBytes  = 8 * 1024 * 1024
)

// DefaultLimits returns the built-in fallback values, one per field.
func DefaultLimits() Limits {
	return Limits{
		TimeLimitMs:      defaultTimeLimitMs,
		MemoryLimitBytes: defaultMemoryLimitBytes,
		OutputLimitBytes: defaultOutputLimitBytes,
		CompileTimeoutMs: defaultCompileTimeoutMs,
		StackLimitBytes:  defaultStackLimitBytes,
	}
}

// LoadLimits parses a lightweight quoted-key/colon config document and
// returns a fully-populated Limits. A missing file, an unparsable
// field, or a non-positive value each fall back to the default for
// that field alone; the other fields are unaffected.
func LoadLimits(path string) Limits {
	l := DefaultLimits()

	data, err := os.ReadFile(path)
	if err != nil {
		return l
	}

	raw := parseLimitFields(string(data))

	if v, ok := raw["time_limit"]; ok && v > 0 {
		l.TimeLimitMs = int(v)
	}
	if v, ok := raw["memory_limit"]; ok && v > 0 {
		l.MemoryLimitBytes = v * 1024
	}
	if v, ok := raw["output_limit"]; ok && v > 0 {
		l.OutputLimitBytes = v
	}
	if v, ok := raw["compile_timeout"]; ok && v > 0 {
		l.CompileTimeoutMs = int(v)
	}
	if v, ok := raw["stack_limit"]; ok && v > 0 {
		l.StackLimitBytes = v * 1024
	}

	return l
}

// parseLimitFields scans "key": value pairs out of the document,
// tolerating garbage between them. Only positive decimal-digit
// sequences are accepted as values; anything else is simply absent
// from the returned map, leaving the caller's default in place.
func parseLimitFields(doc string) map[string]int64 {
	out := make(map[string]int64)
	for _, key := range []string{"time_limit", "memory_limit", "output_limit", "compile_timeout", "stack_limit"} {
		needle := `"` + key + `"`
		idx := strings.Index(doc, needle)
		if idx == -1 {
			continue
		}
		rest := doc[idx+len(needle):]
		colon := strings.Index(rest, ":")
		if colon == -1 {
			continue
		}
		rest = strings.TrimLeft(rest[colon+1:], " \t")
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 0 {
			continue
		}
		n, err := strconv.ParseInt(rest[:end], 10, 64)
		if err != nil {
			continue
		}
		out[key] = n
	}
	return out
}
