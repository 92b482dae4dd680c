package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b-1", BuildID("b-1")},
		{"Stage", KeyStage, "prepare_dirs", Stage("prepare_dirs")},
		{"State", KeyState, "done", State("done")},
		{"Result", KeyResult, "success", Result("success")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"URL", KeyURL, "https://example.com/x.git", URL("https://example.com/x.git")},
		{"Ref", KeyRef, "main", Ref("main")},
		{"Executable", KeyExecutable, "doxygen", Executable("doxygen")},
		{"Outcome", KeyOutcome, "failed", Outcome("failed")},
		{"Backend", KeyBackend, "go-git", Backend("go-git")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := ExitCode(2); a.Key != KeyExitCode || a.Value.Int64() != 2 {
		t.Fatalf("unexpected exit code attr: %v", a)
	}
	if a := Duration(1500 * time.Microsecond); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}
