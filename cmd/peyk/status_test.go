package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/peykchat/peyk/internal/store"
	"github.com/peykchat/peyk/pkg/config"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{input: 0, want: "0 B"},
		{input: 1023, want: "1023 B"},
		{input: 1024, want: "1.0 KiB"},
		{input: 1536, want: "1.5 KiB"},
		{input: 1048576, want: "1.0 MiB"},
	}

	for _, tt := range tests {
		got := formatBytes(tt.input)
		if got != tt.want {
			t.Fatalf("formatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp(""); got != "n/a" {
		t.Fatalf("formatTimestamp(empty) = %q, want %q", got, "n/a")
	}

	const ts = "2026-08-20T10:00:00Z"
	if got := formatTimestamp(ts); got != ts {
		t.Fatalf("formatTimestamp(value) = %q, want %q", got, ts)
	}
}

func TestParseStatusArgs(t *testing.T) {
	opts, err := parseStatusArgs([]string{"--json"})
	if err != nil {
		t.Fatalf("parseStatusArgs returned error: %v", err)
	}
	if !opts.JSON {
		t.Fatalf("parseStatusArgs JSON = false, want true")
	}

	if _, err := parseStatusArgs([]string{"--bad"}); err == nil {
		t.Fatalf("parseStatusArgs expected error for unknown flag")
	}
}

func TestCollectStatus(t *testing.T) {
	dbPath := t.TempDir() + "/peyk.db"

	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	alice, err := st.CreateAccount("alice", "+100", "pw1", nil)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	bob, err := st.CreateAccount("bob", "+200", "pw2", nil)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if _, err := st.AppendMessage(alice.ID, bob.ID, "hello"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	st.Close()

	cfg := &config.Config{
		Port:         "12345",
		Environment:  "test",
		DatabasePath: dbPath,
	}

	status := collectStatus(cfg)

	if !status.DBMetricsReady {
		t.Fatalf("Expected metrics to be ready, warning: %s", status.DBWarning)
	}
	if status.Accounts != 2 {
		t.Errorf("Expected 2 accounts, got %d", status.Accounts)
	}
	if status.Messages != 1 {
		t.Errorf("Expected 1 message, got %d", status.Messages)
	}
	if status.DBSize == 0 {
		t.Error("Expected a non-zero database size")
	}
}

func TestCollectStatusMissingDatabase(t *testing.T) {
	cfg := &config.Config{
		Port:         "12345",
		Environment:  "test",
		DatabasePath: t.TempDir() + "/missing.db",
	}

	status := collectStatus(cfg)

	if status.DBMetricsReady {
		t.Error("Expected metrics not ready for a missing database")
	}
	if status.DBWarning == "" {
		t.Error("Expected a database warning")
	}
}

func TestPrintStatus(t *testing.T) {
	status := appStatus{
		GeneratedAt:    time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Environment:    "development",
		Port:           "12345",
		DatabasePath:   "/tmp/peyk.db",
		Accounts:       3,
		DBMetricsReady: true,
	}

	var out bytes.Buffer
	printStatus(&out, status)

	if !strings.Contains(out.String(), "Accounts          : 3") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestPrintStatusJSON(t *testing.T) {
	status := appStatus{
		GeneratedAt:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Environment:  "development",
		Port:         "12345",
		DatabasePath: "/tmp/peyk.db",
		Accounts:     3,
	}

	var out bytes.Buffer
	if err := printStatusJSON(&out, status); err != nil {
		t.Fatalf("printStatusJSON returned error: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if payload["environment"] != "development" {
		t.Fatalf("unexpected environment: %#v", payload["environment"])
	}
}
