package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestStandardLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.SetFormatter(Formatter("text"))
	logger.SetLevel(Warn)

	logger.Info("hidden")
	logger.WithFields(map[string]any{"customer": "4711"}).Warn("font %s not found", "calibri")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "font calibri not found") || !strings.Contains(out, "customer=4711") {
		t.Errorf("unexpected output %q", out)
	}
	if logger.GetLevel() != Warn {
		t.Errorf("GetLevel() = %v", logger.GetLevel())
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	parent := New()
	child := parent.WithFields(map[string]any{"run": "a"}).(*StandardLogger)
	child.WithFields(map[string]any{"customer": "b"})
	if len(parent.getFields()) != 0 {
		t.Errorf("parent fields changed: %v", parent.getFields())
	}
	if len(child.getFields()) != 1 {
		t.Errorf("child fields changed: %v", child.getFields())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": Info, "DEBUG": Debug, "warning": Warn, "error": Error} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
