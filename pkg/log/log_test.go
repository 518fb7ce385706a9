package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	pmlerrors "github.com/OPpuolitaival/pandas-ml/pkg/errors"
)

func TestZerologProviderEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelInfo, &buf)

	logger := provider.GetLoggerWithName("ModelFrame")
	logger.Info("estimator fitted",
		MethodKey, "fit",
		SamplesKey, 150,
		FeaturesKey, 4,
	)

	line := strings.TrimSpace(buf.String())
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, line)
	}

	if entry["message"] != "estimator fitted" {
		t.Errorf("message = %v, want %q", entry["message"], "estimator fitted")
	}
	if entry[ComponentKey] != "ModelFrame" {
		t.Errorf("component = %v, want %q", entry[ComponentKey], "ModelFrame")
	}
	if entry[MethodKey] != "fit" {
		t.Errorf("%s = %v, want %q", MethodKey, entry[MethodKey], "fit")
	}
	if entry[SamplesKey] != float64(150) {
		t.Errorf("%s = %v, want 150", SamplesKey, entry[SamplesKey])
	}
}

func TestZerologProviderLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelWarn, &buf)

	logger := provider.GetLogger()
	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("low-level messages should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn message missing from output: %s", out)
	}

	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("Enabled(LevelDebug) should be false at warn level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("Enabled(LevelError) should be true at warn level")
	}
}

func TestZerologProviderWarningsSink(t *testing.T) {
	var buf bytes.Buffer
	NewZerologProviderWithWriter(LevelInfo, &buf)
	defer pmlerrors.SetZerologWarnFunc(nil)

	pmlerrors.Warn(pmlerrors.NewTargetRenameWarning("label", ".target"))

	out := buf.String()
	if !strings.Contains(out, "renamed to '.target'") {
		t.Errorf("warning not routed to zerolog sink: %s", out)
	}
	if !strings.Contains(out, "TargetRenameWarning") {
		t.Errorf("structured warning type missing: %s", out)
	}
}

func TestTestLoggerCapture(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	contextual := logger.With(FrameTargetKey, ".target")
	contextual.Info("predict dispatched", MethodKey, "predict")
	contextual.Debug("wrap", ClassesKey, 3)

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0][FrameTargetKey] != ".target" {
		t.Errorf("contextual field missing: %v", entries[0])
	}
	if !logger.ContainsMessage("predict dispatched") {
		t.Error("ContainsMessage failed to find logged message")
	}
}
