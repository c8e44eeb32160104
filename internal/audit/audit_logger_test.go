package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LogHold(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWith(log.New(&buf, "", 0))

	logger.LogHold("tr-1", "acc-student", "acc-instructor", "enrollment:e1", decimal.RequireFromString("40"))

	line := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(line, "AUDIT: "))

	var event Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "AUDIT: ")), &event))
	assert.Equal(t, "HOLD", event.EventType)
	assert.Equal(t, "tr-1", event.TransferID)
	assert.Equal(t, "acc-student", event.AccountID)
	assert.True(t, decimal.RequireFromString("40").Equal(event.Amount))
}

func TestLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWith(log.New(&buf, "", 0))

	logger.LogError("SETTLE", "tr-9", errors.New("boom"))

	assert.Contains(t, buf.String(), `"status":"FAILED"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestLogger_NilIsNoop(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.LogSettle("tr", "acc", decimal.Zero)
	})
}
