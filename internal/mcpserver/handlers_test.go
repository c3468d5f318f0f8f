package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/bluebook/internal/gateway"
	"github.com/mark3labs/bluebook/internal/nats"
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/mark3labs/bluebook/internal/requests"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 17, 15, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// validArgs is the Ram Thapa renewal as tool arguments.
func validArgs() map[string]any {
	return map[string]any{
		renewal.FieldFullName:            "Ram Thapa",
		renewal.FieldPhoneNumber:         "9812345678",
		renewal.FieldVehicleName:         "Honda City",
		renewal.FieldEngineCapacity:      "1500",
		renewal.FieldVehicleRegistration: "BA 12 PA 1234",
		renewal.FieldLastRenewalYear:     "2022",
		renewal.FieldPickupAddress:       "Ward 5, Baneshwor, Kathmandu",
		renewal.FieldPickupDate:          "2026-10-18",
		renewal.FieldTimeSlot:            "Morning",
	}
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

// setupStore starts an embedded JetStream and returns a request store on it.
func setupStore(t *testing.T) *requests.Store {
	t.Helper()
	e, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return requests.NewStore(e.JetStream, e.Stream)
}

func TestValidatePersonal(t *testing.T) {
	srv := New(gateway.NewSimulated(0), WithClock(fixedNow))

	result, err := srv.handleValidatePersonal(context.Background(), call("validate-personal-info", validArgs()))
	require.NoError(t, err)
	assert.Equal(t, "valid", extractText(result))

	result, err = srv.handleValidatePersonal(context.Background(), call("validate-personal-info", map[string]any{
		renewal.FieldFullName:    "R",
		renewal.FieldPhoneNumber: 9812345678, // not a string
	}))
	require.NoError(t, err)

	var errs map[string]string
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &errs))
	assert.Equal(t, "Full name must be at least 2 characters", errs[renewal.FieldFullName])
	assert.Equal(t, "Phone number is required", errs[renewal.FieldPhoneNumber])
}

func TestValidateVehicle(t *testing.T) {
	srv := New(gateway.NewSimulated(0), WithClock(fixedNow))

	args := validArgs()
	args[renewal.FieldVehicleRegistration] = "AB1234"
	args[renewal.FieldEngineCapacity] = "-5"
	result, err := srv.handleValidateVehicle(context.Background(), call("validate-vehicle-details", args))
	require.NoError(t, err)

	var errs map[string]string
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &errs))
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, renewal.FieldVehicleRegistration)
	assert.Contains(t, errs, renewal.FieldEngineCapacity)
}

func TestValidatePickup_UsesClock(t *testing.T) {
	srv := New(gateway.NewSimulated(0), WithClock(fixedNow))

	result, err := srv.handleValidatePickup(context.Background(), call("validate-pickup-details", validArgs()))
	require.NoError(t, err)
	assert.Equal(t, "valid", extractText(result))

	args := validArgs()
	args[renewal.FieldPickupDate] = "2026-10-17"
	result, err = srv.handleValidatePickup(context.Background(), call("validate-pickup-details", args))
	require.NoError(t, err)
	assert.Contains(t, extractText(result), "Please select a future date")
}

func TestSubmitRenewal_Success(t *testing.T) {
	var got renewal.Request
	gw := gateway.Func(func(_ context.Context, req renewal.Request) (gateway.Receipt, error) {
		got = req
		return gateway.Receipt{ID: "id-1", Reference: "BB-ID1", SubmittedAt: testNow}, nil
	})
	srv := New(gw, WithClock(fixedNow))

	result, err := srv.handleSubmitRenewal(context.Background(), call("submit-renewal", validArgs()))
	require.NoError(t, err)

	var receipt gateway.Receipt
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &receipt))
	assert.Equal(t, "BB-ID1", receipt.Reference)
	assert.Equal(t, "Ram Thapa", got.PersonalInfo.FullName)
	assert.Equal(t, "BA 12 PA 1234", got.VehicleDetails.VehicleRegistration)
	assert.Equal(t, "Morning", got.PickupDetails.TimeSlot)
}

func TestSubmitRenewal_ReportsFirstFailingStep(t *testing.T) {
	calls := 0
	gw := gateway.Func(func(context.Context, renewal.Request) (gateway.Receipt, error) {
		calls++
		return gateway.Receipt{}, nil
	})
	srv := New(gw, WithClock(fixedNow))

	args := validArgs()
	args[renewal.FieldEngineCapacity] = "abc"
	args[renewal.FieldTimeSlot] = "Night"
	result, err := srv.handleSubmitRenewal(context.Background(), call("submit-renewal", args))
	require.NoError(t, err)

	var outcome submitOutcome
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &outcome))
	assert.Equal(t, "Vehicle Details", outcome.Step)
	assert.Contains(t, outcome.Errors, renewal.FieldEngineCapacity)
	assert.NotContains(t, outcome.Errors, renewal.FieldTimeSlot)
	assert.Zero(t, calls)
}

func TestSubmitRenewal_GatewayError(t *testing.T) {
	gw := gateway.Func(func(context.Context, renewal.Request) (gateway.Receipt, error) {
		return gateway.Receipt{}, errors.New("backend unavailable")
	})
	srv := New(gw, WithClock(fixedNow))

	result, err := srv.handleSubmitRenewal(context.Background(), call("submit-renewal", validArgs()))
	require.NoError(t, err)
	assert.Equal(t, "error: submission failed: backend unavailable", extractText(result))
}

func TestSubmitRenewal_NoArguments(t *testing.T) {
	srv := New(gateway.NewSimulated(0))
	result, err := srv.handleSubmitRenewal(context.Background(), call("submit-renewal", nil))
	require.NoError(t, err)
	assert.Equal(t, "error: no arguments provided", extractText(result))
}

func TestListRequests_AfterJetStreamSubmit(t *testing.T) {
	store := setupStore(t)
	srv := New(gateway.NewJetStream(store, gateway.WithClock(fixedNow)), WithStore(store), WithClock(fixedNow))

	result, err := srv.handleListRequests(context.Background(), call("list-requests", nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", extractText(result))

	_, err = srv.handleSubmitRenewal(context.Background(), call("submit-renewal", validArgs()))
	require.NoError(t, err)

	result, err = srv.handleListRequests(context.Background(), call("list-requests", nil))
	require.NoError(t, err)

	var records []requests.Record
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Ram Thapa", records[0].Request.PersonalInfo.FullName)
	assert.True(t, strings.HasPrefix(records[0].Reference, "BB-"))
}

func TestStartStop(t *testing.T) {
	srv := New(gateway.NewSimulated(0), WithClock(fixedNow))

	port, err := srv.Start(context.Background(), 0)
	require.NoError(t, err)
	assert.NotZero(t, port)
	assert.Contains(t, srv.URL(), "/mcp")

	_, err = srv.Start(context.Background(), 0)
	assert.Error(t, err)

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL(), strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(data), "submit-renewal")
	assert.NotContains(t, string(data), "list-requests")

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}
