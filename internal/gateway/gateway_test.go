package gateway

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/bluebook/internal/hooks"
	"github.com/mark3labs/bluebook/internal/nats"
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/mark3labs/bluebook/internal/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() renewal.Request {
	return renewal.Request{
		PersonalInfo: renewal.PersonalInfo{FullName: "Ram Thapa", PhoneNumber: "9812345678"},
		VehicleDetails: renewal.VehicleDetails{
			VehicleName:         "Honda City",
			EngineCapacity:      "1500",
			VehicleRegistration: "BA 12 PA 1234",
			LastRenewalYear:     "2022",
		},
		PickupDetails: renewal.PickupDetails{
			PickupAddress: "Ward 5, Baneshwor, Kathmandu",
			PickupDate:    "2030-01-02",
			TimeSlot:      "Morning",
		},
	}
}

func newStore(t *testing.T) *requests.Store {
	t.Helper()
	e, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return requests.NewStore(e.JetStream, e.Stream)
}

func TestReferenceFor(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000000")
	assert.Equal(t, "BB-1A2B3C4D", ReferenceFor(id))

	r := NewReceipt(time.Now())
	assert.Regexp(t, regexp.MustCompile(`^BB-[0-9A-F]{8}$`), r.Reference)
	_, err := uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.False(t, r.IsZero())
	assert.True(t, Receipt{}.IsZero())
}

func TestVehicleToken(t *testing.T) {
	assert.Equal(t, "ba-12-pa-1234", VehicleToken("BA 12 PA 1234"))
	assert.Equal(t, "province-2-03-001-cha-1234", VehicleToken("Province-2-03-001 Cha 1234"))
	assert.Equal(t, "unregistered", VehicleToken("  "))
}

func TestCheckRecord(t *testing.T) {
	require.NoError(t, CheckRecord(validRequest()))

	req := validRequest()
	req.VehicleDetails.VehicleRegistration = "AB1234"
	req.PickupDetails.TimeSlot = "Night"
	err := CheckRecord(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.Contains(t, err.Error(), "VehicleRegistration(registration)")
	assert.Contains(t, err.Error(), "TimeSlot(timeslot)")

	req = validRequest()
	req.VehicleDetails.LastRenewalYear = ""
	assert.NoError(t, CheckRecord(req))
}

func TestSimulated_Succeeds(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	g := &Simulated{Latency: 10 * time.Millisecond, Now: func() time.Time { return at }}

	start := time.Now()
	receipt, err := g.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, at, receipt.SubmittedAt)
	assert.NotEmpty(t, receipt.ID)
}

func TestSimulated_Failure(t *testing.T) {
	boom := errors.New("backend unavailable")
	g := &Simulated{Err: boom}
	_, err := g.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, boom)
}

func TestSimulated_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulated(time.Hour).Submit(ctx, validRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSimulated_DefaultLatency(t *testing.T) {
	assert.Equal(t, DefaultLatency, NewSimulated(-1).Latency)
	assert.Equal(t, time.Duration(0), NewSimulated(0).Latency)
}

func TestFunc(t *testing.T) {
	var got renewal.Request
	g := Func(func(_ context.Context, req renewal.Request) (Receipt, error) {
		got = req
		return Receipt{ID: "x"}, nil
	})
	r, err := g.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "x", r.ID)
	assert.Equal(t, validRequest(), got)
}

func TestJetStream_RecordsRequest(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	g := NewJetStream(store, WithClock(func() time.Time { return at }))
	receipt, err := g.Submit(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, at, receipt.SubmittedAt)

	rec, err := store.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Reference, rec.Reference)
	assert.Equal(t, validRequest(), rec.Request)
	assert.True(t, rec.SubmittedAt.Equal(at))
}

func TestJetStream_RejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	req := validRequest()
	req.PersonalInfo.PhoneNumber = "98-123"
	_, err := NewJetStream(store).Submit(ctx, req)
	require.ErrorIs(t, err, ErrInvalidRequest)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCheckRecord_AcceptsWhatTheWizardAccepts(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		capacity string
		year     string
	}{
		{"exponent capacity", "1e3", "2022"},
		{"leading dot capacity", ".5", "2022"},
		{"trailing dot capacity", "1500.", "2022"},
		{"signed year", "1500", "+2020"},
		{"zero padded year", "1500", "02020"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.VehicleDetails.EngineCapacity = tt.capacity
			req.VehicleDetails.LastRenewalYear = tt.year
			require.Empty(t, renewal.ValidateVehicleDetails(req.VehicleDetails, now))

			receipt, err := NewJetStream(newStore(t), WithClock(func() time.Time { return now })).
				Submit(context.Background(), req)
			require.NoError(t, err)
			assert.False(t, receipt.IsZero())
		})
	}
}

func TestCheckRecord_RejectsBadNumbers(t *testing.T) {
	for _, capacity := range []string{"0", "-5", "abc", "NaN", "Inf"} {
		req := validRequest()
		req.VehicleDetails.EngineCapacity = capacity
		err := CheckRecord(req)
		require.ErrorIs(t, err, ErrInvalidRequest, capacity)
		assert.Contains(t, err.Error(), "EngineCapacity(positive)")
	}

	req := validRequest()
	req.VehicleDetails.LastRenewalYear = "1999"
	err := CheckRecord(req)
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "LastRenewalYear(renewalyear)")
}

func TestJetStream_RunsOnSubmitHooks(t *testing.T) {
	dir := t.TempDir()
	cfg := &hooks.Config{Version: 1, Hooks: hooks.HooksConfig{
		OnSubmit: hooks.HookList{{Command: "echo {{request_id}} {{phone}} {{pickup_date}} > submitted.txt", Timeout: 5}},
	}}

	g := NewJetStream(newStore(t), WithHooks(cfg, dir))
	receipt, err := g.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "submitted.txt"))
	require.NoError(t, err)
	assert.Equal(t, receipt.ID+" 9812345678 2030-01-02", strings.TrimSpace(string(data)))
}

func TestJetStream_HookFailureDoesNotFailSubmission(t *testing.T) {
	cfg := &hooks.Config{Hooks: hooks.HooksConfig{
		OnSubmit: hooks.HookList{{Command: "exit 1", Timeout: 5}},
	}}
	_, err := NewJetStream(newStore(t), WithHooks(cfg, t.TempDir())).Submit(context.Background(), validRequest())
	assert.NoError(t, err)
}
