// Package gateway submits completed renewal requests to a backend.
package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/bluebook/internal/renewal"
)

// Gateway accepts a fully validated request. Implementations must honour
// ctx cancellation.
type Gateway interface {
	Submit(ctx context.Context, req renewal.Request) (Receipt, error)
}

// Receipt acknowledges an accepted request.
type Receipt struct {
	ID          string    `json:"id" yaml:"id"`
	SubmittedAt time.Time `json:"submittedAt" yaml:"submittedAt"`
	Reference   string    `json:"reference" yaml:"reference"`
}

// IsZero reports whether r is the empty receipt.
func (r Receipt) IsZero() bool {
	return r.ID == "" && r.Reference == "" && r.SubmittedAt.IsZero()
}

// Func adapts an ordinary function to the Gateway interface.
type Func func(ctx context.Context, req renewal.Request) (Receipt, error)

// Submit calls f(ctx, req).
func (f Func) Submit(ctx context.Context, req renewal.Request) (Receipt, error) {
	return f(ctx, req)
}

// NewReceipt issues a receipt with a fresh ID. The reference is the short,
// human-friendly form read out over the phone.
func NewReceipt(at time.Time) Receipt {
	id := uuid.New()
	return Receipt{
		ID:          id.String(),
		SubmittedAt: at,
		Reference:   ReferenceFor(id),
	}
}

// ReferenceFor derives "BB-XXXXXXXX" from the first bytes of id.
func ReferenceFor(id uuid.UUID) string {
	return "BB-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
