package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func newBufferedLogger(t *testing.T, format string) (*bytes.Buffer, func(msg string, attrs ...Attr)) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: format, Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &buf, func(msg string, attrs ...Attr) {
		logger.Info(msg, Args(attrs...)...)
	}
}

func TestConsoleHandlerLine(t *testing.T) {
	buf, log := newBufferedLogger(t, "console")
	log("copied file", String("source", "/a/b.jpg"), Int("group", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Errorf("missing level label: %q", line)
	}
	if !strings.Contains(line, "copied file") {
		t.Errorf("missing message: %q", line)
	}
	if !strings.Contains(line, "source=/a/b.jpg") || !strings.Contains(line, "group=3") {
		t.Errorf("missing attrs: %q", line)
	}
}

func TestConsoleHandlerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	WithComponent(logger, "cluster").Info("groups built", Int("groups", 4))

	line := buf.String()
	if !strings.Contains(line, " cluster: groups built") {
		t.Errorf("component prefix missing: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component leaked as attr: %q", line)
	}
}

func TestConsoleHandlerQuoting(t *testing.T) {
	buf, log := newBufferedLogger(t, "console")
	log("warn", String("path", "/with space/x.jpg"), Error(errors.New("boom boom")))

	line := buf.String()
	if !strings.Contains(line, `path="/with space/x.jpg"`) {
		t.Errorf("value with space not quoted: %q", line)
	}
	if !strings.Contains(line, `error="boom boom"`) {
		t.Errorf("error attr not rendered: %q", line)
	}
}

func TestJSONHandler(t *testing.T) {
	buf, log := newBufferedLogger(t, "json")
	log("pairs found", Int("pairs", 12))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal: %v (raw %q)", err, buf.String())
	}
	if record["msg"] != "pairs found" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Errorf("level = %v", record["level"])
	}
	if record["pairs"] != float64(12) {
		t.Errorf("pairs = %v", record["pairs"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("info leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn missing: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
