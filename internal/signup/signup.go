// Package signup validates sign-up requests from providers and families and
// hands accepted submissions to a Sink. The service stores nothing itself.
package signup

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/couchcryptid/vrn-registry/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Role is who is signing up.
type Role string

const (
	RoleProvider Role = "provider"
	RoleFamily   Role = "family"
)

// DefaultRole is used when a request leaves the role blank.
const DefaultRole = RoleProvider

// ParseRole maps a request value to a Role. Blank selects DefaultRole.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultRole, nil
	case RoleProvider:
		return RoleProvider, nil
	case RoleFamily:
		return RoleFamily, nil
	default:
		return "", &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", s)}
	}
}

// Submission is one accepted sign-up.
type Submission struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Email       string    `json:"email"`
	Location    string    `json:"location"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewSubmission validates the request fields and returns a Submission with a
// fresh ID.
func NewSubmission(role, email, location string, now time.Time) (Submission, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Submission{}, err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return Submission{}, &ValidationError{Field: "email", Reason: "required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Submission{}, &ValidationError{Field: "email", Reason: "not a valid email address"}
	}

	location = strings.TrimSpace(location)
	if location == "" {
		return Submission{}, &ValidationError{Field: "location", Reason: "required"}
	}

	return Submission{
		ID:          uuid.NewString(),
		Role:        r,
		Email:       addr.Address,
		Location:    location,
		SubmittedAt: now.UTC(),
	}, nil
}

// Sink receives accepted submissions.
type Sink interface {
	Record(ctx context.Context, s Submission) error
}

// LogSink writes submissions to the structured log. The email address is
// left out of the log line.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record implements Sink.
func (s *LogSink) Record(_ context.Context, sub Submission) error {
	s.logger.Info("sign-up received",
		"id", sub.ID,
		"role", string(sub.Role),
		"location", sub.Location,
		"submitted_at", sub.SubmittedAt,
	)
	return nil
}

// Service validates sign-ups and forwards them to a Sink.
type Service struct {
	sink    Sink
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a Service.
func NewService(sink Sink, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{sink: sink, clock: clock, logger: logger, metrics: metrics}
}

// Submit validates a request and records it. Validation failures are returned
// as *ValidationError; sink failures are wrapped.
func (s *Service) Submit(ctx context.Context, role, email, location string) (Submission, error) {
	sub, err := NewSubmission(role, email, location, s.clock.Now())
	if err != nil {
		s.metrics.Signups.WithLabelValues(roleLabel(role), "rejected").Inc()
		return Submission{}, err
	}

	if err := s.sink.Record(ctx, sub); err != nil {
		s.metrics.Signups.WithLabelValues(string(sub.Role), "sink_error").Inc()
		s.logger.Error("record sign-up", "id", sub.ID, "error", err)
		return Submission{}, fmt.Errorf("record sign-up: %w", err)
	}

	s.metrics.Signups.WithLabelValues(string(sub.Role), "accepted").Inc()
	return sub, nil
}

// roleLabel keeps the metric label set bounded for rejected requests.
func roleLabel(role string) string {
	r, err := ParseRole(role)
	if err != nil {
		return "unknown"
	}
	return string(r)
}
