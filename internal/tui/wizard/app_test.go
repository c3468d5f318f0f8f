package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/bluebook/internal/flow"
	"github.com/mark3labs/bluebook/internal/gateway"
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ram = renewal.PersonalInfo{FullName: "Ram Thapa", PhoneNumber: "9812345678"}

	hondaCity = renewal.VehicleDetails{
		VehicleName:         "Honda City",
		EngineCapacity:      "1500",
		VehicleRegistration: "BA 12 PA 1234",
		LastRenewalYear:     "2022",
	}

	pickup = renewal.PickupDetails{
		PickupAddress: "Ward 5, Baneshwor, Kathmandu",
		PickupDate:    "2026-10-18",
		TimeSlot:      "Morning",
	}
)

type fakeGateway struct {
	calls int
	got   renewal.Request
	err   error
}

func (g *fakeGateway) Submit(_ context.Context, req renewal.Request) (gateway.Receipt, error) {
	g.calls++
	g.got = req
	if g.err != nil {
		return gateway.Receipt{}, g.err
	}
	return gateway.Receipt{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Reference: "BB-0F8FAD5B", SubmittedAt: testNow}, nil
}

func newTestModel(t *testing.T, gw gateway.Gateway, skipSplash bool) *Model {
	t.Helper()
	m := New(context.Background(), Options{
		Gateway:       gw,
		SkipSplash:    skipSplash,
		SplashDelay:   time.Millisecond,
		MarkdownStyle: "ascii",
		Now:           fixedNow,
	})
	t.Cleanup(m.Teardown)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// send delivers msg and returns the follow-up command.
func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// run executes cmd and flattens batches into their messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, run(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findResult(t *testing.T, msgs []tea.Msg) submissionResultMsg {
	t.Helper()
	for _, msg := range msgs {
		if res, ok := msg.(submissionResultMsg); ok {
			return res
		}
	}
	require.FailNow(t, "no submission result in messages")
	return submissionResultMsg{}
}

// toPickup drives m from the home page to the pickup step.
func toPickup(t *testing.T, m *Model) {
	t.Helper()
	send(m, StartRenewalMsg{})
	send(m, PersonalSubmittedMsg{Info: ram})
	send(m, VehicleSubmittedMsg{Details: hondaCity})
	require.Equal(t, flow.Editing{Step: flow.StepPickup}, m.Controller().State())
}

func TestSplash_FinishesOnce(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, false)
	assert.Equal(t, flow.Splash{}, m.Controller().State())
	assert.Contains(t, ansi.Strip(m.render()), "Renewal Service")

	msgs := run(m.Init())
	require.Len(t, msgs, 1)
	send(m, msgs[0])
	assert.Equal(t, flow.Home{}, m.Controller().State())

	// A repeated delivery is stale.
	send(m, msgs[0])
	assert.Equal(t, flow.Home{}, m.Controller().State())
	assert.Contains(t, ansi.Strip(m.render()), "Renew Your Bluebook Now")
}

func TestSplash_IgnoredAfterTeardown(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, false)
	msgs := run(m.Init())
	require.Len(t, msgs, 1)

	m.Teardown()
	send(m, msgs[0])
	assert.Equal(t, flow.Splash{}, m.Controller().State())
}

func TestSplash_SkipWithEnter(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, false)
	pending := run(m.Init())

	send(m, enterKey)
	assert.Equal(t, flow.Home{}, m.Controller().State())

	// The original timer firing later changes nothing.
	send(m, pending[0])
	assert.Equal(t, flow.Home{}, m.Controller().State())
}

func TestSkipSplash(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, true)
	assert.Equal(t, flow.Home{}, m.Controller().State())
	assert.Nil(t, m.Init())
}

func TestHome_EnterStartsRenewal(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, true)
	cmd := send(m, enterKey)
	require.NotNil(t, cmd)
	send(m, cmd())
	assert.Equal(t, flow.Editing{Step: flow.StepPersonal}, m.Controller().State())

	out := ansi.Strip(m.render())
	assert.Contains(t, out, "Step 1 of 3")
	assert.Contains(t, out, "Full Name")
}

func TestEndToEnd_Success(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(t, gw, true)
	toPickup(t, m)

	cmd := send(m, PickupSubmittedMsg{Details: pickup})
	assert.Equal(t, flow.Submitting{}, m.Controller().State())
	assert.Contains(t, ansi.Strip(m.render()), "Submitting your request")

	result := findResult(t, run(cmd))
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, renewal.Request{PersonalInfo: ram, VehicleDetails: hondaCity, PickupDetails: pickup}, gw.got)

	send(m, result)
	require.IsType(t, flow.Confirmed{}, m.Controller().State())
	assert.Equal(t, "Request Submitted Successfully!", m.toast.Title())
	require.NotNil(t, m.confirmation)
	assert.Contains(t, m.confirmation.markdown, "BB-0F8FAD5B")
	assert.Contains(t, m.confirmation.markdown, "Sunday, October 18, 2026")
	assert.Equal(t, ButtonAnother, m.confirmation.FocusedButton())

	// Start over returns an empty wizard at home.
	send(m, send(m, enterKey)())
	assert.Equal(t, flow.Home{}, m.Controller().State())
	assert.True(t, m.Controller().Request().IsZero())

	send(m, StartRenewalMsg{})
	assert.Equal(t, renewal.PersonalInfo{}, m.personal.Draft())
}

func TestEndToEnd_KeyboardPersonalStep(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, true)
	send(m, StartRenewalMsg{})

	update := func(msg tea.Msg) tea.Cmd { return send(m, msg) }
	typeText(update, "Ram Thapa")
	send(m, tabKey)
	typeText(update, "9812345678")

	cmd := send(m, enterKey)
	require.NotNil(t, cmd)
	send(m, cmd())
	assert.Equal(t, flow.Editing{Step: flow.StepVehicle}, m.Controller().State())
	assert.Equal(t, ram, m.Controller().Request().PersonalInfo)
}

func TestSubmissionFailure_KeepsData(t *testing.T) {
	gw := &fakeGateway{err: errors.New("network down")}
	m := newTestModel(t, gw, true)
	toPickup(t, m)
	m.pickup = NewPickupStep(pickup, fixedNow)

	send(m, findResult(t, run(send(m, PickupSubmittedMsg{Details: pickup}))))

	assert.Equal(t, flow.Editing{Step: flow.StepPickup}, m.Controller().State())
	assert.Equal(t, "Submission Failed", m.toast.Title())
	assert.Equal(t, pickup, m.pickup.Draft())
	assert.Contains(t, ansi.Strip(m.render()), "Submission failed: network down")

	// Retrying goes through the gateway again.
	gw.err = nil
	send(m, findResult(t, run(send(m, PickupSubmittedMsg{Details: pickup}))))
	assert.Equal(t, 2, gw.calls)
	assert.IsType(t, flow.Confirmed{}, m.Controller().State())
}

func TestSubmitting_IgnoresInput(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(t, gw, true)
	toPickup(t, m)

	send(m, PickupSubmittedMsg{Details: pickup})
	assert.Nil(t, send(m, PickupSubmittedMsg{Details: pickup}))
	assert.Nil(t, send(m, escKey))
	assert.Equal(t, flow.Submitting{}, m.Controller().State())
}

func TestEsc_BackRestoresStoredValues(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, true)
	toPickup(t, m)

	send(m, escKey)
	assert.Equal(t, flow.Editing{Step: flow.StepVehicle}, m.Controller().State())
	assert.Equal(t, hondaCity, m.vehicle.Draft())

	send(m, BackMsg{})
	assert.Equal(t, flow.Editing{Step: flow.StepPersonal}, m.Controller().State())
	assert.Equal(t, ram, m.personal.Draft())

	// Esc on the first step does nothing.
	send(m, escKey)
	assert.Equal(t, flow.Editing{Step: flow.StepPersonal}, m.Controller().State())
}

func TestCtrlC_Quits(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, true)
	cmd := send(m, ctrlCKey)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.tornDown)
	assert.Error(t, m.ctx.Err())
}

func TestView_DrawsToast(t *testing.T) {
	m := newTestModel(t, &fakeGateway{}, true)
	m.toast.Show(ToastError, "Submission Failed", "try again")
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.NotNil(t, v.Content)
}
