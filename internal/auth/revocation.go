package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationChecker decides whether otherwise valid claims were revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *Claims) (bool, error)
}

// RevocationStore keeps revoked token ids and per-user not-before marks in Redis.
type RevocationStore struct {
	client   *redis.Client
	tokenTTL time.Duration
}

// NewRevocationStore builds a store. tokenTTL bounds how long user marks live,
// since older tokens have expired by then anyway.
func NewRevocationStore(client *redis.Client, tokenTTL time.Duration) *RevocationStore {
	return &RevocationStore{client: client, tokenTTL: tokenTTL}
}

// Revoke marks a single token id as revoked until it would have expired.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedTokenKey(tokenID), "1", ttl).Err()
}

// RevokeUser invalidates every token issued to the user up to and including the
// second of at.
func (s *RevocationStore) RevokeUser(ctx context.Context, userID int64, at time.Time) error {
	return s.client.Set(ctx, notBeforeKey(userID), at.Unix(), s.tokenTTL).Err()
}

// IsRevoked implements RevocationChecker.
func (s *RevocationStore) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	pipe := s.client.Pipeline()
	revoked := pipe.Exists(ctx, revokedTokenKey(claims.ID))
	notBefore := pipe.Get(ctx, notBeforeKey(claims.UserID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}

	if revoked.Val() > 0 {
		return true, nil
	}

	mark, err := notBefore.Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if claims.IssuedAt == nil {
		return true, nil
	}
	// iat carries whole seconds, so a token from the same second as the mark
	// cannot be ordered against it and is refused.
	return claims.IssuedAt.Unix() <= mark, nil
}

func revokedTokenKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func notBeforeKey(userID int64) string {
	return fmt.Sprintf("auth:user:%d:not-before", userID)
}
