package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/harube/kanban-board-api/internal/constants"
)

var (
	// ErrTokenInvalid is returned when no token is pending for the email or
	// the presented token does not match the stored hash.
	ErrTokenInvalid = errors.New("sign-in token is invalid or expired")
)

// TokenStore issues and consumes single-use magic-link sign-in tokens.
// Tokens live in Redis under the requesting email, hashed so a store dump
// never reveals a usable link, and expire after constants.SignInTokenTTL.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore creates a TokenStore backed by the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{
		client: client,
		ttl:    constants.SignInTokenTTL,
	}
}

// Issue generates a fresh token for the email and stores its hash. Issuing
// again before the first token is used replaces it.
func (s *TokenStore) Issue(ctx context.Context, email string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash sign-in token: %w", err)
	}

	if err := s.client.Set(ctx, tokenKey(email), string(hash), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store sign-in token: %w", err)
	}

	return token, nil
}

// Consume atomically removes the pending token for the email and compares it
// against the presented value. A second consume with the same token fails.
func (s *TokenStore) Consume(ctx context.Context, email, token string) error {
	hash, err := s.client.GetDel(ctx, tokenKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("failed to load sign-in token: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		return ErrTokenInvalid
	}

	return nil
}

func tokenKey(email string) string {
	return "signin_token:" + strings.ToLower(strings.TrimSpace(email))
}

func generateToken() (string, error) {
	bytes := make([]byte, constants.SignInTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
