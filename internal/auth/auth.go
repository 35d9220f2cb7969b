// Package auth guards the admin and system passwords kept in the settings
// table. Passwords are stored as bcrypt hashes.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	KeyAdminPassword  = "adminPassword"
	KeySystemPassword = "systemPassword"

	DefaultAdminPassword  = "TC5128"
	DefaultSystemPassword = "0000"
)

var (
	ErrEmptyPassword = errors.New("password must not be empty")
	ErrUnknownKey    = errors.New("unknown password setting")
)

var defaults = map[string]string{
	KeyAdminPassword:  DefaultAdminPassword,
	KeySystemPassword: DefaultSystemPassword,
}

type SettingsStore interface {
	Get(key string, dest interface{}) (bool, error)
	Set(key string, value interface{}) error
}

type Service struct {
	settings SettingsStore
	cost     int
	logger   *zap.Logger
}

func NewService(settings SettingsStore, logger *zap.Logger) *Service {
	return &Service{settings: settings, cost: bcrypt.DefaultCost, logger: logger}
}

// WithCost returns a copy hashing at the given bcrypt cost.
func (s *Service) WithCost(cost int) *Service {
	c := *s
	c.cost = cost
	return &c
}

// EnsureDefaults stores the default hash for every password never set.
func (s *Service) EnsureDefaults() error {
	for key, plain := range defaults {
		var stored string
		found, err := s.settings.Get(key, &stored)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if found && stored != "" {
			continue
		}
		if err := s.SetPassword(key, plain); err != nil {
			return err
		}
		s.logger.Info("default password installed", zap.String("key", key))
	}
	return nil
}

// SetPassword hashes plain and stores it under key.
func (s *Service) SetPassword(key, plain string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if strings.TrimSpace(plain) == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.settings.Set(key, string(hash)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Verify checks candidate against the password stored under key, falling
// back to the default when none is stored. A plain-text value left by an
// older install is accepted once and replaced by its hash.
func (s *Service) Verify(key, candidate string) (bool, error) {
	def, ok := defaults[key]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	var stored string
	found, err := s.settings.Get(key, &stored)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found || stored == "" {
		return candidate == def, nil
	}

	if !isHash(stored) {
		if candidate != stored {
			return false, nil
		}
		if err := s.SetPassword(key, candidate); err != nil {
			s.logger.Warn("failed to upgrade plain-text password", zap.String("key", key), zap.Error(err))
		}
		return true, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to compare %s: %w", key, err)
	}
	return true, nil
}

func (s *Service) VerifyAdmin(candidate string) (bool, error) {
	return s.Verify(KeyAdminPassword, candidate)
}

func (s *Service) VerifySystem(candidate string) (bool, error) {
	return s.Verify(KeySystemPassword, candidate)
}

func isHash(v string) bool {
	_, err := bcrypt.Cost([]byte(v))
	return err == nil
}
