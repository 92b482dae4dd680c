package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyState      = "state"
	KeyResult     = "result"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyRef        = "ref"
	KeyExecutable = "executable"
	KeyExitCode   = "exit_code"
	KeyOutcome    = "outcome"
	KeyBackend    = "backend"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func State(s string) slog.Attr         { return slog.String(KeyState, s) }
func Result(r string) slog.Attr        { return slog.String(KeyResult, r) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Ref(r string) slog.Attr           { return slog.String(KeyRef, r) }
func Executable(e string) slog.Attr    { return slog.String(KeyExecutable, e) }
func ExitCode(code int) slog.Attr      { return slog.Int(KeyExitCode, code) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Backend(b string) slog.Attr       { return slog.String(KeyBackend, b) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
