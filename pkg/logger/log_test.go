package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithRequestIDAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug", "json")

	ctx := WithRequestID(context.Background(), "req-1")
	Info(ctx, "hello", "k", "v")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if line["request_id"] != "req-1" || line["k"] != "v" || line["msg"] != "hello" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn", "text")

	Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	Warn(context.Background(), "kept")
	if !bytes.Contains(buf.Bytes(), []byte("kept")) {
		t.Fatalf("warn should be logged, got %q", buf.String())
	}
}
