package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/bluebook/internal/gateway"
	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/renewal"
)

var (
	// ErrInvalidTransition is wrapped by every operation called from a
	// state that does not allow it.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrSubmissionInFlight is returned when a submission is started while
	// another one is still pending.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// Controller drives the wizard. It is not safe for concurrent use; the UI
// event loop is its single owner.
type Controller struct {
	state     State
	request   renewal.Request
	direction Direction
	inFlight  bool
	lastErr   error
	now       func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the source of "now" used by the date rules. The returned
// time's location decides what "today" means.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLocation evaluates date rules in loc.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		c.now = func() time.Time { return time.Now().In(loc) }
	}
}

// StartAtHome skips the splash screen.
func StartAtHome() Option {
	return func(c *Controller) {
		c.state = Home{}
	}
}

// New returns a controller on the splash screen with an empty request.
func New(opts ...Option) *Controller {
	c := &Controller{
		state: Splash{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current screen.
func (c *Controller) State() State { return c.state }

// Request returns a copy of the aggregate assembled so far.
func (c *Controller) Request() renewal.Request { return c.request }

// Direction returns the direction of the last step change.
func (c *Controller) Direction() Direction { return c.direction }

// Submitting reports whether a submission is pending.
func (c *Controller) Submitting() bool { return c.inFlight }

// LastError returns the error of the most recent failed submission. It is
// cleared when a new submission starts or the wizard starts over.
func (c *Controller) LastError() error { return c.lastErr }

// Now returns the controller's current time.
func (c *Controller) Now() time.Time { return c.now() }

func (c *Controller) invalid(op string) error {
	return fmt.Errorf("%s from %s: %w", op, c.state.Name(), ErrInvalidTransition)
}

func (c *Controller) step() (Step, bool) {
	e, ok := c.state.(Editing)
	return e.Step, ok
}

func (c *Controller) moveTo(s State) {
	logger.Debug("Wizard: %s -> %s", c.state.Name(), s.Name())
	c.state = s
}

// FinishSplash leaves the splash screen for the home page.
func (c *Controller) FinishSplash() error {
	if _, ok := c.state.(Splash); !ok {
		return c.invalid("finish splash")
	}
	c.moveTo(Home{})
	return nil
}

// StartRenewal opens the first step.
func (c *Controller) StartRenewal() error {
	if _, ok := c.state.(Home); !ok {
		return c.invalid("start renewal")
	}
	c.direction = Forward
	c.moveTo(Editing{Step: StepPersonal})
	return nil
}

// SubmitPersonal validates p and, if it passes, stores it and advances to
// the vehicle step. A non-empty FieldErrors leaves everything unchanged.
func (c *Controller) SubmitPersonal(p renewal.PersonalInfo) (renewal.FieldErrors, error) {
	if s, ok := c.step(); !ok || s != StepPersonal {
		return nil, c.invalid("submit personal info")
	}
	if errs := renewal.ValidatePersonalInfo(p); !errs.Empty() {
		return errs, nil
	}
	c.request.PersonalInfo = p
	c.direction = Forward
	c.moveTo(Editing{Step: StepVehicle})
	return nil, nil
}

// SubmitVehicle validates v and, if it passes, stores it and advances to the
// pickup step.
func (c *Controller) SubmitVehicle(v renewal.VehicleDetails) (renewal.FieldErrors, error) {
	if s, ok := c.step(); !ok || s != StepVehicle {
		return nil, c.invalid("submit vehicle details")
	}
	if errs := renewal.ValidateVehicleDetails(v, c.now()); !errs.Empty() {
		return errs, nil
	}
	c.request.VehicleDetails = v
	c.direction = Forward
	c.moveTo(Editing{Step: StepPickup})
	return nil, nil
}

// Back returns to the previous step without validating. Sections already
// stored are kept.
func (c *Controller) Back() error {
	s, ok := c.step()
	if !ok || s == StepPersonal {
		return c.invalid("back")
	}
	c.direction = Backward
	c.moveTo(Editing{Step: s - 1})
	return nil
}

// BeginSubmit validates p, stores it and moves to Submitting. The returned
// request is what must be handed to the gateway; the outcome is reported
// back through ResolveSubmission.
func (c *Controller) BeginSubmit(p renewal.PickupDetails) (renewal.FieldErrors, renewal.Request, error) {
	if c.inFlight {
		return nil, renewal.Request{}, ErrSubmissionInFlight
	}
	if s, ok := c.step(); !ok || s != StepPickup {
		return nil, renewal.Request{}, c.invalid("submit pickup details")
	}
	if errs := renewal.ValidatePickupDetails(p, c.now()); !errs.Empty() {
		return errs, renewal.Request{}, nil
	}
	c.request.PickupDetails = p
	c.inFlight = true
	c.lastErr = nil
	c.moveTo(Submitting{})
	return nil, c.request, nil
}

// ResolveSubmission records the gateway's answer. Success moves to
// Confirmed; failure returns to the pickup step with the data retained and
// the error kept in LastError.
func (c *Controller) ResolveSubmission(receipt gateway.Receipt, err error) error {
	if _, ok := c.state.(Submitting); !ok {
		return c.invalid("resolve submission")
	}
	c.inFlight = false
	if err != nil {
		logger.Warn("Submission failed: %v", err)
		c.lastErr = err
		c.direction = Backward
		c.moveTo(Editing{Step: StepPickup})
		return nil
	}
	logger.Info("Submission confirmed: %s", receipt.Reference)
	c.moveTo(Confirmed{Receipt: receipt})
	return nil
}

// Submit runs BeginSubmit, the gateway call and ResolveSubmission in one
// blocking call. The gateway error, if any, is returned as well as recorded.
func (c *Controller) Submit(ctx context.Context, gw gateway.Gateway, p renewal.PickupDetails) (renewal.FieldErrors, error) {
	errs, req, err := c.BeginSubmit(p)
	if err != nil || !errs.Empty() {
		return errs, err
	}
	receipt, gwErr := gw.Submit(ctx, req)
	if err := c.ResolveSubmission(receipt, gwErr); err != nil {
		return nil, err
	}
	return nil, gwErr
}

// StartOver clears the request and goes back to the home page.
func (c *Controller) StartOver() error {
	if _, ok := c.state.(Confirmed); !ok {
		return c.invalid("start over")
	}
	c.request = renewal.Request{}
	c.lastErr = nil
	c.direction = Forward
	c.moveTo(Home{})
	return nil
}
