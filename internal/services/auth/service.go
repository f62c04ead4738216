package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	DeleteSession(ctx context.Context, sid string) error
}

// Service validates bearer tokens issued by the identity provider. Tokens
// carry a session id that must still exist in the session store, so revoking
// a session invalidates every token minted for it.
type Service struct {
	jwt      *JWTManager
	sessions SessionStore
	now      func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore) *Service {
	return &Service{
		jwt:      jwtManager,
		sessions: sessions,
		now:      time.Now,
	}
}

// IssueSession mints a fresh session and an access token bound to it. The
// identity provider calls this after it has verified the user; tokens die
// with their session, so both share one expiry.
func (s *Service) IssueSession(ctx context.Context, userID int64, role string) (string, SessionRecord, error) {
	if userID <= 0 {
		return "", SessionRecord{}, ErrInvalidInput
	}

	sid := uuid.NewString()
	token, expiresAt, err := s.jwt.GenerateAccessToken(userID, sid, role)
	if err != nil {
		return "", SessionRecord{}, fmt.Errorf("generate access token: %w", err)
	}

	session := SessionRecord{
		SID:       sid,
		UserID:    userID,
		Role:      role,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", SessionRecord{}, fmt.Errorf("create session: %w", err)
	}

	return token, session, nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, fmt.Errorf("get session: %w", err)
	}

	if session.UserID != claims.UserID || session.Role != claims.Role {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
