// Package token mints and validates the three classes of signed tokens
// used by the API. Each class signs with its own secret and expiry so
// that rotating or leaking one class never affects the others.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
)

type Class string

const (
	Access  Class = "access"
	Refresh Class = "refresh"
	Verify  Class = "verify"
)

var (
	// ErrNoSecret means the service was started without a signing
	// secret for the requested class. Configuration problem, not a
	// caller problem.
	ErrNoSecret  = errors.New("no signing secret configured for token class")
	ErrNoSubject = errors.New("no subject provided for token")

	// ErrExpired and ErrInvalid are distinct so callers can react
	// differently: only expiry should ever trigger a refresh attempt.
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// Claims is the validated content of a token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

type classConfig struct {
	secret []byte
	expiry time.Duration
}

type Service struct {
	classes map[Class]classConfig
}

type Config struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration
	VerifySecret  string
	VerifyExpiry  time.Duration
}

func New(cfg Config) *Service {
	return &Service{
		classes: map[Class]classConfig{
			Access:  {secret: []byte(cfg.AccessSecret), expiry: cfg.AccessExpiry},
			Refresh: {secret: []byte(cfg.RefreshSecret), expiry: cfg.RefreshExpiry},
			Verify:  {secret: []byte(cfg.VerifySecret), expiry: cfg.VerifyExpiry},
		},
	}
}

// FromConfig builds a Service from the auth.* config keys.
func FromConfig() *Service {
	return New(Config{
		AccessSecret:  viper.GetString("auth.access_secret"),
		AccessExpiry:  viper.GetDuration("auth.access_expiry"),
		RefreshSecret: viper.GetString("auth.refresh_secret"),
		RefreshExpiry: viper.GetDuration("auth.refresh_expiry"),
		VerifySecret:  viper.GetString("auth.verify_secret"),
		VerifyExpiry:  viper.GetDuration("auth.verify_expiry"),
	})
}

// Issue signs a new token of the given class carrying the user id as
// its subject.
func (s *Service) Issue(class Class, userID string) (string, error) {
	c, ok := s.classes[class]
	if !ok || len(c.secret) == 0 {
		return "", ErrNoSecret
	}

	if userID == "" {
		return "", ErrNoSubject
	}

	// Claims carry second precision, so without a random id two tokens
	// minted in the same second would be byte-identical and rotation
	// would silently keep the old one alive.
	jti, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        jti,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
	})

	return t.SignedString(c.secret)
}

// Validate checks signature and expiry of a token against the given
// class. Expired-but-genuine tokens fail with ErrExpired, everything
// else with ErrInvalid.
func (s *Service) Validate(tokenStr string, class Class) (*Claims, error) {
	c, ok := s.classes[class]
	if !ok || len(c.secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &jwt.RegisteredClaims{}

	t, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}

		return nil, ErrInvalid
	}

	if !t.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalid
	}

	return &Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
