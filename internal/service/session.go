package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"healthtracker/internal/middleware"
	"healthtracker/internal/models"
	"healthtracker/internal/observability"
	"healthtracker/internal/repository"
)

const (
	tokenIssuer   = "healthtracker"
	tokenAudience = "healthtracker-web"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong password.
var ErrInvalidCredentials = errors.New("Please enter a correct username and password. Note that both fields may be case-sensitive.")

// SessionService authenticates users and manages their signed session tokens.
type SessionService struct {
	users  repository.UserRepository
	redis  *redis.Client
	secret []byte
	ttl    time.Duration
}

// NewSessionService builds the service. rdb may be nil, in which case logout
// only clears the cookie and tokens stay valid until they expire.
func NewSessionService(users repository.UserRepository, rdb *redis.Client, secret string, ttl time.Duration) *SessionService {
	return &SessionService{users: users, redis: rdb, secret: []byte(secret), ttl: ttl}
}

// Session is an issued token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Authenticate checks username and password.
func (s *SessionService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.LoginAttempts.WithLabelValues("unknown_user").Inc()
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.LoginAttempts.WithLabelValues("bad_password").Inc()
		return nil, ErrInvalidCredentials
	}
	observability.LoginAttempts.WithLabelValues("success").Inc()
	return user, nil
}

// Issue signs a new session token for userID.
func (s *SessionService) Issue(userID uint) (*Session, error) {
	if len(s.secret) == 0 {
		return nil, errors.New("JWT secret not configured")
	}

	now := time.Now()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: signed, ExpiresAt: expires}, nil
}

func (s *SessionService) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired session")
	}
	return claims, nil
}

// Verify validates the token and returns the user id it was issued for.
func (s *SessionService) Verify(ctx context.Context, token string) (uint, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return 0, models.NewUnauthorizedError("Invalid user ID in session")
	}

	if claims.ID != "" && s.redis != nil {
		rctx, span := observability.StartRedisSpan(ctx, "exists")
		revoked, err := s.redis.Exists(rctx, blacklistKey(claims.ID)).Result()
		span.End()
		if err != nil {
			middleware.Logger.WarnContext(ctx, "session revocation check failed", slog.String("error", err.Error()))
		} else if revoked > 0 {
			return 0, models.NewUnauthorizedError("Session has been revoked")
		}
	}

	return uint(userID), nil
}

// Revoke blacklists the token's id until the token would have expired anyway.
// Unparseable or expired tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" || s.redis == nil {
		return nil
	}
	claims, err := s.parse(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	rctx, span := observability.StartRedisSpan(ctx, "set")
	defer span.End()
	if err := s.redis.Set(rctx, blacklistKey(claims.ID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}
