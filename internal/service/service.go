package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finance-planner/internal/calendar"
	"github.com/Dan9191/finance-planner/internal/config"
	"github.com/Dan9191/finance-planner/internal/repository"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

type contextKey struct{}

// WithUserID returns a context carrying the authenticated user id
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the authenticated user id stored by WithUserID
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKey{}).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context: %w", ErrUnauthenticated)
	}
	return userID, nil
}

// Service handles business logic
type Service struct {
	repo     repository.Store
	log      *logrus.Logger
	config   *config.Config
	calendar *calendar.Deriver
	now      func() time.Time
}

// NewService initializes a new service
func NewService(repo repository.Store, log *logrus.Logger, cfg *config.Config, deriver *calendar.Deriver) *Service {
	return &Service{repo: repo, log: log, config: cfg, calendar: deriver, now: time.Now}
}

// WithClock replaces the clock used for timestamps and tokens
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.calendar = s.calendar.WithClock(now)
	return s
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr translates repository errors into service errors
func storeErr(err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s already exists: %w", what, ErrConflict)
	}
	return err
}
