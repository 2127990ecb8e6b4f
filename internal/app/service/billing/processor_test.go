package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fatmeal/commerce/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEventHandler struct {
	events []*Event
	err    error
}

func (h *fakeEventHandler) HandleEvent(_ context.Context, ev *Event, _ time.Time) error {
	h.events = append(h.events, ev)
	return h.err
}

type fakeEventJournal struct {
	entries []*models.BillingEventLog
}

func (j *fakeEventJournal) SaveBillingEvent(_ context.Context, entry *models.BillingEventLog) {
	j.entries = append(j.entries, entry)
}

var processorNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func validCreatedBody() []byte {
	return []byte(`{"id":"evt-1","type":"subscription.created","data":{"subscription_id":"sub-ext-1"}}`)
}

func TestProcess_JournalsReceivedAndHandled(t *testing.T) {
	handler := &fakeEventHandler{}
	journal := &fakeEventJournal{}
	p := NewProcessor(handler, journal, zap.NewNop().Sugar())

	err := p.Process(context.Background(), validCreatedBody(), "trace-1", processorNow)
	require.NoError(t, err)

	require.Len(t, handler.events, 1)
	require.Equal(t, "evt-1", handler.events[0].ID)

	require.Len(t, journal.entries, 2)
	require.Equal(t, models.BillingEventLogStatusReceived, journal.entries[0].Status)
	require.Equal(t, models.BillingEventLogStatusHandled, journal.entries[1].Status)
	for _, entry := range journal.entries {
		require.Equal(t, "evt-1", entry.EventID)
		require.Equal(t, "sub-ext-1", *entry.ExternalBillingID)
		require.Equal(t, "trace-1", entry.TraceID)
		require.Equal(t, processorNow, entry.EventTime)
	}
}

func TestProcess_ParseFailureJournalsHandleFailed(t *testing.T) {
	handler := &fakeEventHandler{}
	journal := &fakeEventJournal{}
	p := NewProcessor(handler, journal, zap.NewNop().Sugar())

	err := p.Process(context.Background(), []byte(`{not json`), "trace-1", processorNow)
	require.ErrorIs(t, err, ErrMalformedEvent)

	require.Empty(t, handler.events)
	require.Len(t, journal.entries, 2)
	require.Equal(t, models.BillingEventLogStatusHandleFailed, journal.entries[1].Status)
	require.NotNil(t, journal.entries[1].Result)
}

func TestProcess_HandlerErrorPropagates(t *testing.T) {
	handler := &fakeEventHandler{err: errors.New("connection refused")}
	journal := &fakeEventJournal{}
	p := NewProcessor(handler, journal, zap.NewNop().Sugar())

	err := p.Process(context.Background(), validCreatedBody(), "trace-1", processorNow)
	require.Error(t, err)
	require.Equal(t, models.BillingEventLogStatusHandleFailed, journal.entries[1].Status)
}
