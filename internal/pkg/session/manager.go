package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Data is the per-token session snapshot kept in Redis. The jti in the JWT
// must resolve to a live entry here, which is what makes logout effective
// before token expiry.
type Data struct {
	JTI       string    `json:"jti"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Name      string    `json:"name,omitempty"`
	LoginAt   time.Time `json:"login_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// Create stores a new session in Redis with a TTL matching the token.
func (m *Manager) Create(ctx context.Context, data *Data) error {
	ttl := time.Until(data.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.client.Set(ctx, m.key(data.UserID, data.JTI), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// Get retrieves a session, returning redis.Nil-wrapped error when absent.
func (m *Manager) Get(ctx context.Context, userID, jti string) (*Data, error) {
	payload, err := m.client.Get(ctx, m.key(userID, jti)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &data, nil
}

// Revoke deletes a single session (logout).
func (m *Manager) Revoke(ctx context.Context, userID, jti string) error {
	return m.client.Del(ctx, m.key(userID, jti)).Err()
}

// RevokeAll deletes every session belonging to the user (logout everywhere).
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	iter := m.client.Scan(ctx, 0, fmt.Sprintf("session:%s:*", userID), 100).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (m *Manager) key(userID, jti string) string {
	return fmt.Sprintf("session:%s:%s", userID, jti)
}
