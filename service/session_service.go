package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/Aashish23092/agent-ranking-parser/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const sessionSubject = "leadership"

type SessionConfig struct {
	Password     string
	PasswordHash string
	Secret       string
	TTL          time.Duration
	// LoginsPerMinute bounds password attempts per client; zero disables the limit.
	LoginsPerMinute int
}

// SessionService is the password gate in front of uploads. A successful login
// yields a signed token the client sends on every request, so no auth state is
// shared between sessions.
type SessionService struct {
	cfg      SessionConfig
	limiters *cache.Cache
	now      func() time.Time
}

func NewSessionService(cfg SessionConfig) *SessionService {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &SessionService{
		cfg:      cfg,
		limiters: cache.New(10*time.Minute, 20*time.Minute),
		now:      time.Now,
	}
}

// Enabled reports whether a password is configured at all
func (s *SessionService) Enabled() bool {
	return s.cfg.Password != "" || s.cfg.PasswordHash != ""
}

// Login checks the password for clientKey (usually the client IP) and issues a token
func (s *SessionService) Login(clientKey, password string) (*dto.SessionResponse, error) {
	if !s.allow(clientKey) {
		return nil, dto.ErrRateLimited
	}
	if s.Enabled() && !s.checkPassword(password) {
		return nil, dto.ErrInvalidPassword
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Subject:   sessionSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &dto.SessionResponse{Token: token, ExpiresAt: expiresAt.UTC()}, nil
}

// Validate accepts any request when the gate is disabled, otherwise a signed, unexpired token
func (s *SessionService) Validate(token string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return dto.ErrInvalidSession
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithSubject(sessionSubject))
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: %v", dto.ErrInvalidSession, err)
	}
	return nil
}

func (s *SessionService) checkPassword(password string) bool {
	if s.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.Password), []byte(password)) == 1
}

func (s *SessionService) allow(clientKey string) bool {
	if s.cfg.LoginsPerMinute <= 0 {
		return true
	}
	if v, ok := s.limiters.Get(clientKey); ok {
		return v.(*rate.Limiter).Allow()
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.cfg.LoginsPerMinute)), s.cfg.LoginsPerMinute)
	if err := s.limiters.Add(clientKey, limiter, cache.DefaultExpiration); err != nil {
		// another request registered this client first
		if v, ok := s.limiters.Get(clientKey); ok {
			limiter = v.(*rate.Limiter)
		}
	}
	return limiter.Allow()
}
