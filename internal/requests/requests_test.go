package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/nats"
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	e, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return NewStore(e.JetStream, e.Stream)
}

func sampleRequest(name string) renewal.Request {
	return renewal.Request{
		PersonalInfo: renewal.PersonalInfo{FullName: name, PhoneNumber: "9812345678"},
		VehicleDetails: renewal.VehicleDetails{
			VehicleName:         "Honda City",
			EngineCapacity:      "1500",
			VehicleRegistration: "BA 12 PA 1234",
		},
		PickupDetails: renewal.PickupDetails{
			PickupAddress: "Ward 5, Baneshwor, Kathmandu",
			PickupDate:    "2030-01-02",
			TimeSlot:      "Morning",
		},
	}
}

func TestStore_PublishAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	second, err := SubmittedEvent("id-2", "BB-2", "ba-12-pa-1234", base.Add(time.Minute), sampleRequest("Sita"))
	require.NoError(t, err)
	first, err := SubmittedEvent("id-1", "BB-1", "ba-12-pa-1234", base, sampleRequest("Ram Thapa"))
	require.NoError(t, err)

	_, err = store.Publish(ctx, second)
	require.NoError(t, err)
	_, err = store.Publish(ctx, first)
	require.NoError(t, err)

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id-1", records[0].ID)
	assert.Equal(t, "BB-1", records[0].Reference)
	assert.Equal(t, "Ram Thapa", records[0].Request.PersonalInfo.FullName)
	assert.True(t, records[0].SubmittedAt.Equal(base))
	assert.Equal(t, "id-2", records[1].ID)

	// Listing twice replays the log again.
	records, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	event, err := SubmittedEvent("abc", "BB-ABC", "ba-12-pa-1234", time.Now(), sampleRequest("Ram Thapa"))
	require.NoError(t, err)
	_, err = store.Publish(ctx, event)
	require.NoError(t, err)

	rec, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sampleRequest("Ram Thapa"), rec.Request)

	_, err = store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_EmptyList(t *testing.T) {
	records, err := newTestStore(t).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_PublishRequiresVehicle(t *testing.T) {
	_, err := newTestStore(t).Publish(context.Background(), Event{ID: "x", Action: ActionSubmitted})
	assert.Error(t, err)
}

func TestStore_SkipsMalformedEvents(t *testing.T) {
	ctx := context.Background()
	e, err := nats.Open(ctx, t.TempDir())
	require.NoError(t, err)
	defer e.Close()
	store := NewStore(e.JetStream, e.Stream)

	_, err = e.JetStream.Publish(ctx, nats.SubjectForVehicle("junk"), []byte("not json"))
	require.NoError(t, err)

	event, err := SubmittedEvent("ok", "", "ba-1", time.Now(), sampleRequest("Ram"))
	require.NoError(t, err)
	_, err = store.Publish(ctx, event)
	require.NoError(t, err)

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].ID)
}

func TestState_Apply(t *testing.T) {
	st := &State{Records: map[string]*Record{}}

	st.Apply(Event{ID: "a", Type: "other", Action: ActionSubmitted})
	st.Apply(Event{ID: "b", Type: nats.EventTypeRequest, Action: "unknown"})
	st.Apply(Event{ID: "c", Type: nats.EventTypeRequest, Action: ActionSubmitted, Data: json.RawMessage(`[`)})
	assert.Empty(t, st.Records)

	data, _ := json.Marshal(sampleRequest("Ram"))
	st.Apply(Event{ID: "d", Type: nats.EventTypeRequest, Action: ActionSubmitted, Data: data})
	require.Contains(t, st.Records, "d")
	assert.Empty(t, st.Records["d"].Reference)
}

func TestState_Apply_BadMetaKeepsRecord(t *testing.T) {
	var buf bytes.Buffer
	logger.Default.SetOutput(&buf)
	logger.Default.SetLevel(logger.LevelWarn)
	t.Cleanup(func() { logger.Default.SetOutput(io.Discard) })

	st := &State{Records: map[string]*Record{}}
	data, _ := json.Marshal(sampleRequest("Ram"))
	st.Apply(Event{
		ID:     "e",
		Type:   nats.EventTypeRequest,
		Action: ActionSubmitted,
		Data:   data,
		Meta:   json.RawMessage(`{"reference":`),
	})

	require.Contains(t, st.Records, "e")
	assert.Empty(t, st.Records["e"].Reference)
	assert.Equal(t, "Ram", st.Records["e"].Request.PersonalInfo.FullName)
	assert.Contains(t, buf.String(), "Submitted event e has bad meta")
}
