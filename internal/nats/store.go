package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Subject pattern constants and helpers
const (
	streamName    = "bluebook_requests"
	subjectPrefix = "bluebook.requests"

	// Retention covers a full renewal cycle plus follow-up calls.
	retention = 90 * 24 * time.Hour

	// Event types
	EventTypeRequest = "request"
)

// StreamName returns the name of the request stream.
func StreamName() string {
	return streamName
}

// SubjectForAll returns the wildcard subject matching every request event.
// Example: "bluebook.requests.>"
func SubjectForAll() string {
	return subjectPrefix + ".>"
}

// SubjectForVehicle returns the subject for events about one vehicle. token
// must already be a valid subject token.
// Example: "bluebook.requests.ba-12-pa-1234"
func SubjectForVehicle(token string) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, token)
}

// SetupStream creates or updates the JetStream stream for request events.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{SubjectForAll()},
		Storage:  jetstream.FileStorage,
		MaxAge:   retention,
	})
}

// CreateConsumer creates an ordered, ephemeral consumer that replays every
// event from the start of the stream.
func CreateConsumer(ctx context.Context, stream jetstream.Stream, filter string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: filter,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
}
