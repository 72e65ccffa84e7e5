package event

import (
	"context"
	"testing"

	"ordercore/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	e, err := NewEnvelope(Spec{EventType: "ShipOrderResult", Source: "ordercore", Payload: map[string]any{"ok": true}})
	require.NoError(t, err)

	var p Publisher = LoggingPublisher{}
	require.NoError(t, p.PublishBatch(context.Background(), []Envelope{e, e}))

	entries := logs.FilterMessage("Event published").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ShipOrderResult", entries[0].ContextMap()["event_type"])
	assert.Equal(t, e.EventID, entries[0].ContextMap()["event_id"])
}
