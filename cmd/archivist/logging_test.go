// ABOUTME: Tests for logger construction from LogConfig.
package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/2389-research/archivist/config"
	"github.com/sirupsen/logrus"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}

	logger.WithField("component", "cmd").Debug("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["component"] != "cmd" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewLoggerTextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info entry should be filtered at warn: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestNewLoggerRejectsBadInput(t *testing.T) {
	if _, err := newLogger(config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := newLogger(config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
