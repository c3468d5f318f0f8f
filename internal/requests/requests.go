// Package requests keeps submitted renewal requests in a JetStream event log
// and reduces them back into records.
package requests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/bluebook/internal/logger"
	"github.com/mark3labs/bluebook/internal/nats"
	"github.com/mark3labs/bluebook/internal/renewal"
	"github.com/nats-io/nats.go/jetstream"
)

// ErrNotFound is returned by Get when no request has the given ID.
var ErrNotFound = errors.New("request not found")

// Actions understood by State.Apply.
const (
	ActionSubmitted = "submitted"
)

// Event is one entry in the request log.
type Event struct {
	ID        string          `json:"id"`        // request ID
	Timestamp time.Time       `json:"timestamp"` // when the event occurred
	Vehicle   string          `json:"vehicle"`   // subject token of the registration
	Type      string          `json:"type"`
	Action    string          `json:"action"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	Data      json.RawMessage `json:"data"` // the renewal.Request
}

// Record is a submitted request as reconstructed from the log.
type Record struct {
	ID          string          `json:"id" yaml:"id"`
	Reference   string          `json:"reference" yaml:"reference"`
	SubmittedAt time.Time       `json:"submittedAt" yaml:"submittedAt"`
	Request     renewal.Request `json:"request" yaml:"request"`
}

// Store publishes and reads request events.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a new Store instance with the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
	}
}

// Publish appends an event to the log under the subject of its vehicle.
func (s *Store) Publish(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Type == "" {
		event.Type = nats.EventTypeRequest
	}
	if event.Vehicle == "" {
		return nil, errors.New("event has no vehicle subject token")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForVehicle(event.Vehicle)
	logger.Debug("Publishing event: id=%s action=%s subject=%s", event.ID, event.Action, subject)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debug("Event published: seq=%d", ack.Sequence)
	return ack, nil
}

// State is the reduction of the request log.
type State struct {
	Records map[string]*Record
}

// Apply folds one event into the state.
func (st *State) Apply(event Event) {
	if event.Type != nats.EventTypeRequest {
		return
	}

	switch event.Action {
	case ActionSubmitted:
		var req renewal.Request
		if err := json.Unmarshal(event.Data, &req); err != nil {
			logger.Warn("Skipping submitted event %s with bad payload: %v", event.ID, err)
			return
		}
		var meta struct {
			Reference string `json:"reference"`
		}
		if len(event.Meta) > 0 {
			if err := json.Unmarshal(event.Meta, &meta); err != nil {
				logger.Warn("Submitted event %s has bad meta, reference dropped: %v", event.ID, err)
			}
		}
		st.Records[event.ID] = &Record{
			ID:          event.ID,
			Reference:   meta.Reference,
			SubmittedAt: event.Timestamp,
			Request:     req,
		}
	}
}

// Sorted returns the records ordered by submission time, oldest first.
func (st *State) Sorted() []*Record {
	out := make([]*Record, 0, len(st.Records))
	for _, r := range st.Records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

// Load replays every event in the stream into a fresh State.
func (s *Store) Load(ctx context.Context) (*State, error) {
	consumer, err := nats.CreateConsumer(ctx, s.stream, nats.SubjectForAll())
	if err != nil {
		logger.Error("Failed to create consumer: %v", err)
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	defer s.stream.DeleteConsumer(context.WithoutCancel(ctx), consumerName(consumer))

	state := &State{Records: make(map[string]*Record)}

	const batchSize = 1000
	malformed := 0
	total := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			total++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				msg.Ack()
				continue
			}
			state.Apply(event)
			msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events while loading requests", malformed)
	}
	logger.Debug("Requests loaded: %d events, %d records", total, len(state.Records))

	return state, nil
}

func consumerName(c jetstream.Consumer) string {
	info := c.CachedInfo()
	if info == nil {
		return ""
	}
	return info.Name
}

// List returns every stored request ordered by submission time.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	state, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.Sorted(), nil
}

// Get returns the request with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	state, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := state.Records[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return r, nil
}

// SubmittedEvent builds the event recorded for a newly submitted request.
func SubmittedEvent(id, reference, vehicle string, at time.Time, req renewal.Request) (Event, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	meta, err := json.Marshal(map[string]string{"reference": reference})
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal meta: %w", err)
	}
	return Event{
		ID:        id,
		Timestamp: at,
		Vehicle:   vehicle,
		Type:      nats.EventTypeRequest,
		Action:    ActionSubmitted,
		Meta:      meta,
		Data:      data,
	}, nil
}
