package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("TextFormat", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetLevel(LogLevelInfo)
		l.SetOutput(buf)
		l.SetFormat(LogFormatText)
		l.Info("opened %s", ":memory:")

		output := buf.String()
		if !strings.Contains(output, "[JLITE]") || !strings.Contains(output, "INFO") || !strings.Contains(output, "opened :memory:") {
			t.Errorf("Unexpected text output: %s", output)
		}
	})

	t.Run("JSONFormat", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetOutput(buf)
		l.SetFormat(LogFormatJSON)
		l.Warn("close failed")

		var data map[string]any
		if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
			t.Fatalf("Failed to unmarshal JSON output: %v", err)
		}
		if data["level"] != "WARN" || data["msg"] != "close failed" {
			t.Errorf("Unexpected JSON output: %v", data)
		}
		if _, ok := data["time"]; !ok {
			t.Errorf("Missing time field in JSON output")
		}
	})

	t.Run("WithFields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetOutput(buf)
		l.SetFormat(LogFormatJSON)
		l.WithFields(map[string]any{"target": "app.db"}).Info("opened")

		var data map[string]any
		if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
			t.Fatalf("Failed to unmarshal JSON output: %v", err)
		}
		if data["target"] != "app.db" || data["msg"] != "opened" {
			t.Errorf("Unexpected JSON output with fields: %v", data)
		}
	})

	t.Run("SQLJSON", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetOutput(buf)
		l.SetFormat(LogFormatJSON)
		l.SQL("select Name from Users", 10*time.Millisecond, int64(1))

		var data map[string]any
		if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
			t.Fatalf("Failed to unmarshal JSON output: %v", err)
		}
		if data["level"] != "SQL" || data["sql"] != "select Name from Users" {
			t.Errorf("Unexpected SQL JSON output: %v", data)
		}
		if data["duration"] != "10ms" {
			t.Errorf("Unexpected duration in SQL JSON output: %v", data["duration"])
		}
	})

	t.Run("SQLBelowInfo", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetOutput(buf)
		l.SetLevel(LogLevelWarn)
		l.SQL("select 1", time.Millisecond)
		if buf.Len() != 0 {
			t.Errorf("Expected no SQL output at warn level, got: %s", buf.String())
		}
	})

	t.Run("LevelOutput", func(t *testing.T) {
		mainBuf := &bytes.Buffer{}
		errorBuf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetOutput(mainBuf)
		l.SetLevelOutput(LogLevelError, errorBuf)

		l.Info("this is info")
		l.Error("this is error")

		if !strings.Contains(mainBuf.String(), "this is info") || !strings.Contains(mainBuf.String(), "this is error") {
			t.Errorf("Main buffer missing entries: %s", mainBuf.String())
		}
		if strings.Contains(errorBuf.String(), "INFO") {
			t.Errorf("Error buffer should not contain INFO: %s", errorBuf.String())
		}
		if !strings.Contains(errorBuf.String(), "this is error") {
			t.Errorf("Error buffer missing ERROR: %s", errorBuf.String())
		}
	})

	t.Run("Discard", func(t *testing.T) {
		l := Discard()
		l.Error("dropped")
		l.SQL("select 1", time.Millisecond)
	})
}
