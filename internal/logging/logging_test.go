package logging

import (
	"bytes"
	"encoding/json"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_WritesReservedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	Warn(logger, "persist_failed", Fields{"key": "todo_store_v1", "level": "spoofed"})

	var got map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "persist_failed", got["msg"])
	assert.Equal(t, "todo_store_v1", got["key"])
	assert.NotEmpty(t, got["ts"])
}

func TestJSON_NilLoggerIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Info(nil, "ignored", nil)
	})
}
