package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/Dan9191/finance-planner/internal/models"
)

var customIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

const (
	minCustomIDLength = 3
	maxCustomIDLength = 50
)

// ProfileUpdate holds the user fields that can be changed
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Picture *string `json:"picture"`
}

func normalizeCustomID(id string) (string, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if len(id) < minCustomIDLength || len(id) > maxCustomIDLength {
		return "", validationf("custom ID must be between %d and %d characters", minCustomIDLength, maxCustomIDLength)
	}
	if !customIDPattern.MatchString(id) {
		return "", validationf("custom ID can only contain lowercase letters, numbers, hyphens, and underscores")
	}
	return id, nil
}

// CurrentUser returns the authenticated user
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}

// UpdateProfile changes name, email or picture of the authenticated user
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		email, err := normalizeEmail(*update.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if update.Picture != nil {
		user.Picture = strings.TrimSpace(*update.Picture)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, storeErr(err, "user")
	}
	s.log.Infof("User profile updated: %s", user.ID)
	return user, nil
}

// CustomIDAvailable reports whether id is free for the authenticated user.
// An id the user already holds counts as available.
func (s *Service) CustomIDAvailable(ctx context.Context, id string) (bool, error) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return false, err
	}
	id, err = normalizeCustomID(id)
	if err != nil {
		return false, err
	}
	owner, err := s.repo.FindUserByCustomID(ctx, id)
	if err != nil {
		if errors.Is(storeErr(err, "user"), ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return owner.ID == userID, nil
}

// SetCustomID assigns a custom id to the authenticated user
func (s *Service) SetCustomID(ctx context.Context, id string) (*models.User, error) {
	id, err := normalizeCustomID(id)
	if err != nil {
		return nil, err
	}
	available, err := s.CustomIDAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, validationf("custom ID %q is already taken", id)
	}

	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	user.CustomUserID = id
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, storeErr(err, "custom ID")
	}
	s.log.Infof("Custom ID set for user %s: %s", user.ID, id)
	return user, nil
}
