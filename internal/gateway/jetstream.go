package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/mark3labs/bluebook/internal/hooks"
	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/mark3labs/bluebook/internal/requests"
)

// ErrInvalidRequest is returned when a request fails the gateway's own
// record checks.
var ErrInvalidRequest = errors.New("invalid renewal request")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("registration", func(fl validator.FieldLevel) bool {
		return renewal.ValidRegistration(fl.Field().String())
	})
	v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return renewal.TimeSlot(fl.Field().String()).Valid()
	})
	v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		return renewal.PositiveNumber(fl.Field().String())
	})
	v.RegisterValidation("renewalyear", func(fl validator.FieldLevel) bool {
		_, ok := renewal.ParseRenewalYear(fl.Field().String())
		return ok
	})
	return v
}

// record is the stored shape of a request, checked with struct tags before
// anything is published.
type record struct {
	FullName            string `validate:"required,min=2"`
	PhoneNumber         string `validate:"required,len=10,numeric"`
	VehicleName         string `validate:"required"`
	EngineCapacity      string `validate:"required,positive"`
	VehicleRegistration string `validate:"required,registration"`
	LastRenewalYear     string `validate:"omitempty,renewalyear"`
	PickupAddress       string `validate:"required,min=10"`
	PickupDate          string `validate:"required,datetime=2006-01-02"`
	TimeSlot            string `validate:"required,timeslot"`
}

func recordFrom(req renewal.Request) record {
	return record{
		FullName:            strings.TrimSpace(req.PersonalInfo.FullName),
		PhoneNumber:         strings.TrimSpace(req.PersonalInfo.PhoneNumber),
		VehicleName:         strings.TrimSpace(req.VehicleDetails.VehicleName),
		EngineCapacity:      strings.TrimSpace(req.VehicleDetails.EngineCapacity),
		VehicleRegistration: strings.TrimSpace(req.VehicleDetails.VehicleRegistration),
		LastRenewalYear:     strings.TrimSpace(req.VehicleDetails.LastRenewalYear),
		PickupAddress:       strings.TrimSpace(req.PickupDetails.PickupAddress),
		PickupDate:          req.PickupDetails.PickupDate,
		TimeSlot:            req.PickupDetails.TimeSlot,
	}
}

// CheckRecord validates req against the stored record rules.
func CheckRecord(req renewal.Request) error {
	if err := validate.Struct(recordFrom(req)); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// VehicleToken turns a registration number into a NATS subject token.
func VehicleToken(registration string) string {
	token := slug.Make(registration)
	if token == "" {
		return "unregistered"
	}
	return token
}

// JetStream records requests in the JetStream request log and then runs the
// on_submit hooks.
type JetStream struct {
	store   *requests.Store
	hooks   *hooks.Config
	workDir string
	now     func() time.Time
}

// JetStreamOption configures a JetStream gateway.
type JetStreamOption func(*JetStream)

// WithHooks runs the on_submit hooks of cfg in workDir after each accepted
// request.
func WithHooks(cfg *hooks.Config, workDir string) JetStreamOption {
	return func(g *JetStream) {
		g.hooks = cfg
		g.workDir = workDir
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) JetStreamOption {
	return func(g *JetStream) {
		g.now = now
	}
}

// NewJetStream creates a gateway that publishes to store.
func NewJetStream(store *requests.Store, opts ...JetStreamOption) *JetStream {
	g := &JetStream{store: store, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit implements Gateway.
func (g *JetStream) Submit(ctx context.Context, req renewal.Request) (Receipt, error) {
	if err := CheckRecord(req); err != nil {
		logger.Warn("Rejected request: %v", err)
		return Receipt{}, err
	}

	receipt := NewReceipt(g.now())
	vehicle := VehicleToken(req.VehicleDetails.VehicleRegistration)

	event, err := requests.SubmittedEvent(receipt.ID, receipt.Reference, vehicle, receipt.SubmittedAt, req)
	if err != nil {
		return Receipt{}, err
	}
	if _, err := g.store.Publish(ctx, event); err != nil {
		return Receipt{}, fmt.Errorf("failed to record request: %w", err)
	}
	logger.Info("Recorded request %s (%s) for %s", receipt.ID, receipt.Reference, vehicle)

	g.runHooks(ctx, req, receipt)
	return receipt, nil
}

func (g *JetStream) runHooks(ctx context.Context, req renewal.Request, receipt Receipt) {
	if g.hooks == nil || len(g.hooks.Hooks.OnSubmit) == 0 {
		return
	}

	vars := hooks.Variables{
		RequestID:    receipt.ID,
		Reference:    receipt.Reference,
		Name:         strings.TrimSpace(req.PersonalInfo.FullName),
		Phone:        strings.TrimSpace(req.PersonalInfo.PhoneNumber),
		Registration: strings.TrimSpace(req.VehicleDetails.VehicleRegistration),
		PickupDate:   req.PickupDetails.PickupDate,
		TimeSlot:     req.PickupDetails.TimeSlot,
	}
	out, err := hooks.ExecuteAll(ctx, g.hooks.Hooks.OnSubmit, g.workDir, vars)
	if err != nil {
		logger.Warn("on_submit hooks interrupted: %v", err)
		return
	}
	if out != "" {
		logger.Debug("on_submit hook output: %s", strings.TrimSpace(out))
	}
}
