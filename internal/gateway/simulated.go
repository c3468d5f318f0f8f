package gateway

import (
	"context"
	"time"

	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/renewal"
)

// DefaultLatency matches the delay of the hosted service's mock endpoint.
const DefaultLatency = 2 * time.Second

// Simulated waits for Latency and then accepts the request without storing
// it. A non-nil Err makes every submission fail with that error.
type Simulated struct {
	Latency time.Duration
	Err     error
	Now     func() time.Time
}

// NewSimulated returns a simulated gateway with the given latency. A
// negative latency selects DefaultLatency.
func NewSimulated(latency time.Duration) *Simulated {
	if latency < 0 {
		latency = DefaultLatency
	}
	return &Simulated{Latency: latency}
}

// Submit implements Gateway.
func (s *Simulated) Submit(ctx context.Context, req renewal.Request) (Receipt, error) {
	logger.Debug("Simulated submission for %s, waiting %s", req.VehicleDetails.VehicleRegistration, s.Latency)

	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	if s.Err != nil {
		return Receipt{}, s.Err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	receipt := NewReceipt(now())
	logger.Info("Simulated submission accepted: %s", receipt.Reference)
	return receipt, nil
}
