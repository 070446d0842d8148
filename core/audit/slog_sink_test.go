package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfedosov/finguard/core/audit"
)

func TestSlogSink_Event(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := audit.NewSlogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	sink.Event(context.Background(), audit.Event{
		Type:     audit.EventAuthenticationAttempt,
		Severity: audit.SeverityWarning,
		Username: "alice",
		Source:   "1.2.3.4",
		Success:  false,
		Reason:   "invalid credentials",
		Meta:     map[string]string{"remaining": "2"},
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "security event", record["msg"])
	assert.Equal(t, string(audit.EventAuthenticationAttempt), record["event_type"])
	assert.Equal(t, "alice", record["username"])
	assert.Equal(t, "1.2.3.4", record["source"])
	assert.Equal(t, false, record["success"])
	assert.Equal(t, "invalid credentials", record["reason"])
	assert.Equal(t, "2", record["remaining"])
}

func TestSlogSink_SeverityLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity audit.Severity
		level    string
	}{
		{audit.SeverityInfo, "INFO"},
		{audit.SeverityWarning, "WARN"},
		{audit.SeverityCritical, "ERROR"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		sink := audit.NewSlogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

		sink.Event(context.Background(), audit.Event{
			Type:     audit.EventSessionCreated,
			Severity: tt.severity,
		})

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, tt.level, record["level"], "severity %q", tt.severity)
	}
}

func TestNewSlogSink_NilLogger(t *testing.T) {
	t.Parallel()

	sink := audit.NewSlogSink(nil)
	// Must not panic.
	sink.Event(context.Background(), audit.Event{Type: audit.EventSessionExpired})
}
