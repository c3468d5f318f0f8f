// Package wizard is the terminal front end of the renewal flow: splash,
// home page, the three data entry steps, submission and confirmation.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/bluebook/internal/flow"
	"github.com/mark3labs/bluebook/internal/gateway"
	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/template"
	"github.com/mark3labs/bluebook/internal/tui/theme"
)

// Options configures the wizard program.
type Options struct {
	Gateway         gateway.Gateway
	SplashDelay     time.Duration // 0 selects DefaultSplashDelay
	SkipSplash      bool
	ReceiptTemplate string // markdown; empty selects the default receipt
	Location        *time.Location
	MarkdownStyle   string // glamour standard style, "dark" by default

	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Model is the root Bubble Tea model. It owns the flow controller and the
// component for whichever screen is showing.
type Model struct {
	ctrl *flow.Controller
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	splashToken int
	tornDown    bool

	home         *HomeScreen
	personal     *PersonalStep
	vehicle      *VehicleStep
	pickup       *PickupStep
	confirmation *ConfirmationScreen

	toast   *Toast
	spinner spinner.Model
}

// New creates the root model. The caller must call Teardown when the
// program ends.
func New(ctx context.Context, opts Options) *Model {
	if opts.SplashDelay <= 0 {
		opts.SplashDelay = DefaultSplashDelay
	}
	if opts.ReceiptTemplate == "" {
		opts.ReceiptTemplate = template.DefaultReceiptTemplate
	}
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = "dark"
	}
	if opts.Gateway == nil {
		opts.Gateway = gateway.NewSimulated(gateway.DefaultLatency)
	}

	now := opts.Now
	if now == nil {
		loc := opts.Location
		if loc == nil {
			loc = time.Local
		}
		now = func() time.Time { return time.Now().In(loc) }
	}

	ctrlOpts := []flow.Option{flow.WithClock(now)}
	if opts.SkipSplash {
		ctrlOpts = append(ctrlOpts, flow.StartAtHome())
	}

	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctrl:   flow.New(ctrlOpts...),
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		width:  80,
		height: 24,
		toast:  NewToast(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Current().S().Spinner),
		),
	}
	if opts.SkipSplash {
		m.home = NewHomeScreen(opts.MarkdownStyle)
		m.resize()
	}
	return m
}

// Controller exposes the underlying state machine.
func (m *Model) Controller() *flow.Controller {
	return m.ctrl
}

// Init schedules the splash timer when starting on the splash screen.
func (m *Model) Init() tea.Cmd {
	if _, ok := m.ctrl.State().(flow.Splash); ok {
		return splashTick(m.opts.SplashDelay, m.splashToken)
	}
	return nil
}

// Teardown invalidates the pending splash timer and cancels any submission
// in flight. It is safe to call more than once.
func (m *Model) Teardown() {
	if m.tornDown {
		return
	}
	m.tornDown = true
	m.splashToken++
	m.cancel()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyPressMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case splashDoneMsg:
		return m, m.finishSplash(msg.token)

	case toastDismissMsg:
		m.toast.Update(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StartRenewalMsg:
		return m, m.startRenewal()

	case PersonalSubmittedMsg:
		return m, m.submitPersonal(msg)

	case VehicleSubmittedMsg:
		return m, m.submitVehicle(msg)

	case BackMsg:
		return m, m.back()

	case PickupSubmittedMsg:
		return m, m.beginSubmit(msg)

	case submissionResultMsg:
		return m, m.resolveSubmission(msg)

	case StartOverMsg:
		return m, m.startOver()
	}

	return m, m.forward(msg)
}

func (m *Model) handleGlobalKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.Teardown()
		return tea.Quit, true
	}

	switch st := m.ctrl.State().(type) {
	case flow.Splash:
		if msg.String() == "enter" || msg.String() == "space" {
			return m.finishSplash(m.splashToken), true
		}
		return nil, true
	case flow.Home, flow.Confirmed:
		if msg.String() == "q" || msg.String() == "esc" {
			m.Teardown()
			return tea.Quit, true
		}
	case flow.Editing:
		if msg.String() == "esc" {
			if st.Step == flow.StepPersonal {
				return nil, true
			}
			return m.back(), true
		}
	case flow.Submitting:
		// Input is frozen while the gateway works.
		return nil, true
	}
	return nil, false
}

// forward passes msg to the component of the current screen.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	switch st := m.ctrl.State().(type) {
	case flow.Home:
		if m.home != nil {
			return m.home.Update(msg)
		}
	case flow.Editing:
		switch st.Step {
		case flow.StepPersonal:
			return m.personal.Update(msg)
		case flow.StepVehicle:
			return m.vehicle.Update(msg)
		case flow.StepPickup:
			return m.pickup.Update(msg)
		}
	case flow.Confirmed:
		if m.confirmation != nil {
			return m.confirmation.Update(msg)
		}
	}
	return nil
}

func (m *Model) finishSplash(token int) tea.Cmd {
	if m.tornDown || token != m.splashToken {
		return nil
	}
	m.splashToken++
	if err := m.ctrl.FinishSplash(); err != nil {
		logger.Debug("Ignoring splash completion: %v", err)
		return nil
	}
	m.home = NewHomeScreen(m.opts.MarkdownStyle)
	m.resize()
	return nil
}

func (m *Model) startRenewal() tea.Cmd {
	if err := m.ctrl.StartRenewal(); err != nil {
		logger.Debug("Ignoring start renewal: %v", err)
		return nil
	}
	m.personal = NewPersonalStep(m.ctrl.Request().PersonalInfo)
	m.resize()
	return m.personal.Init()
}

func (m *Model) submitPersonal(msg PersonalSubmittedMsg) tea.Cmd {
	errs, err := m.ctrl.SubmitPersonal(msg.Info)
	if err != nil {
		logger.Debug("Ignoring personal info: %v", err)
		return nil
	}
	if !errs.Empty() {
		return m.personal.SetErrors(errs)
	}
	m.vehicle = NewVehicleStep(m.ctrl.Request().VehicleDetails, m.ctrl.Now)
	m.resize()
	return m.vehicle.Init()
}

func (m *Model) submitVehicle(msg VehicleSubmittedMsg) tea.Cmd {
	errs, err := m.ctrl.SubmitVehicle(msg.Details)
	if err != nil {
		logger.Debug("Ignoring vehicle details: %v", err)
		return nil
	}
	if !errs.Empty() {
		return m.vehicle.SetErrors(errs)
	}
	m.pickup = NewPickupStep(m.ctrl.Request().PickupDetails, m.ctrl.Now)
	m.resize()
	return m.pickup.Init()
}

// back returns to the previous step, rebuilt from the stored section.
func (m *Model) back() tea.Cmd {
	if err := m.ctrl.Back(); err != nil {
		logger.Debug("Ignoring back: %v", err)
		return nil
	}
	req := m.ctrl.Request()
	st := m.ctrl.State().(flow.Editing)
	switch st.Step {
	case flow.StepPersonal:
		m.personal = NewPersonalStep(req.PersonalInfo)
		m.resize()
		return m.personal.Init()
	case flow.StepVehicle:
		m.vehicle = NewVehicleStep(req.VehicleDetails, m.ctrl.Now)
		m.resize()
		return m.vehicle.Init()
	}
	return nil
}

func (m *Model) beginSubmit(msg PickupSubmittedMsg) tea.Cmd {
	errs, req, err := m.ctrl.BeginSubmit(msg.Details)
	if errors.Is(err, flow.ErrSubmissionInFlight) {
		return nil
	}
	if err != nil {
		logger.Debug("Ignoring pickup details: %v", err)
		return nil
	}
	if !errs.Empty() {
		return m.pickup.SetErrors(errs)
	}

	gw := m.opts.Gateway
	ctx := m.ctx
	submit := func() tea.Msg {
		receipt, err := gw.Submit(ctx, req)
		return submissionResultMsg{receipt: receipt, err: err}
	}
	return tea.Batch(m.spinner.Tick, submit)
}

func (m *Model) resolveSubmission(msg submissionResultMsg) tea.Cmd {
	if m.tornDown {
		return nil
	}
	if err := m.ctrl.ResolveSubmission(msg.receipt, msg.err); err != nil {
		logger.Debug("Ignoring submission result: %v", err)
		return nil
	}

	if msg.err != nil {
		return m.toast.Show(ToastError,
			"Submission Failed",
			"Please try again. If the problem persists, contact support.")
	}

	req := m.ctrl.Request()
	vars := template.VariablesFor(req, msg.receipt.ID, msg.receipt.Reference, msg.receipt.SubmittedAt)
	m.confirmation = NewConfirmationScreen(template.Render(m.opts.ReceiptTemplate, vars), m.opts.MarkdownStyle)
	m.resize()
	return m.toast.Show(ToastSuccess,
		"Request Submitted Successfully!",
		"Our pickup team will contact you soon.")
}

func (m *Model) startOver() tea.Cmd {
	if err := m.ctrl.StartOver(); err != nil {
		logger.Debug("Ignoring start over: %v", err)
		return nil
	}
	m.personal, m.vehicle, m.pickup, m.confirmation = nil, nil, nil, nil
	if m.home == nil {
		m.home = NewHomeScreen(m.opts.MarkdownStyle)
	}
	m.resize()
	return nil
}

// contentWidth is the width of the centred column.
func (m *Model) contentWidth() int {
	w := m.width - 8
	if w > 80 {
		w = 80
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) resize() {
	w := m.contentWidth()
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	if m.home != nil {
		m.home.SetSize(w, h)
	}
	if m.confirmation != nil {
		m.confirmation.SetSize(w, h)
	}
	inner := w - 6 // card border and padding
	if m.personal != nil {
		m.personal.SetWidth(inner)
	}
	if m.vehicle != nil {
		m.vehicle.SetWidth(inner)
	}
	if m.pickup != nil {
		m.pickup.SetWidth(inner)
	}
}

// render returns the screen content without the toast.
func (m *Model) render() string {
	s := theme.Current().S()
	w := m.contentWidth()

	var body string
	switch st := m.ctrl.State().(type) {
	case flow.Splash:
		return renderSplash(m.width, m.height)

	case flow.Home:
		if m.home != nil {
			body = m.home.View()
		}

	case flow.Editing:
		var step string
		switch st.Step {
		case flow.StepPersonal:
			step = m.personal.View()
		case flow.StepVehicle:
			step = m.vehicle.View()
		case flow.StepPickup:
			step = m.pickup.View()
			if err := m.ctrl.LastError(); err != nil {
				notice := s.Notice.Width(w - 6).Render(fmt.Sprintf(
					"Submission failed: %v\nYour details are kept. Press enter to try again.", err))
				step = notice + "\n\n" + step
			}
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderProgress(st.Step, w),
			"",
			s.Card.Width(w).Render(step),
		)

	case flow.Submitting:
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderProgress(flow.StepPickup, w),
			"",
			s.Card.Width(w).Render(m.spinner.View()+" Submitting your request..."),
		)

	case flow.Confirmed:
		if m.confirmation != nil {
			body = m.confirmation.View()
		}
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(m.render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	if toast := m.toast.View(m.width / 2); toast != "" {
		tw := lipgloss.Width(toast)
		th := strings.Count(toast, "\n") + 1
		x := max(m.width-tw-1, 0)
		uv.NewStyledString(toast).Draw(canvas, uv.Rectangle{
			Min: uv.Position{X: x, Y: 0},
			Max: uv.Position{X: x + tw, Y: th},
		})
	}

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// Run starts the wizard as a full-screen program and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	defer m.Teardown()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
