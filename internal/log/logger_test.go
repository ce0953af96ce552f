package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestJSONLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Component: ComponentWorker, Output: &buf})

	l.InfoContext(context.Background(), "synced", FieldCount, 3)
	l.DebugContext(context.Background(), "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "synced", rec["msg"])
	assert.Equal(t, ComponentWorker, rec[FieldComponent])
	assert.EqualValues(t, 3, rec[FieldCount])

	buf.Reset()
	l.WithComponent(ComponentSheets).WarnContext(context.Background(), "slow")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, ComponentSheets, rec[FieldComponent])
}

func TestFromDefaultUsesInstalledLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetDefault(New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &buf}))

	FromDefault(ComponentStorage).DebugContext(context.Background(), "saved",
		NewFields().WithOperation(OpCreate).ToSlice()...)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, ComponentStorage, rec[FieldComponent])
	assert.Equal(t, OpCreate, rec[FieldOperation])
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpSync).
		WithExpense("id-1", "Coffee", 450, "Food").
		WithError(errors.New("boom")).
		WithError(nil)

	assert.Equal(t, "boom", f[FieldError])
	assert.Equal(t, int64(450), f[FieldAmountCents])
	assert.Len(t, f.ToSlice(), 2*len(f))
}
