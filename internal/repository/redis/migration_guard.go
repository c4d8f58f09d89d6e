package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// MigrationGuard marks guest snapshots as consumed so a replayed migration is
// rejected before it reaches the database.
type MigrationGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMigrationGuard(client *redis.Client, ttl time.Duration) *MigrationGuard {
	return &MigrationGuard{
		client: client,
		ttl:    ttl,
	}
}

func guardKey(guestID string) string {
	// key format: "guest:migrated:{guest_id}"
	return fmt.Sprintf("guest:migrated:%s", guestID)
}

// Acquire claims guestID for userID. It returns false when the guest was already claimed.
func (g *MigrationGuard) Acquire(ctx context.Context, guestID, userID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKey(guestID), userID, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire migration guard: %w", err)
	}
	return ok, nil
}

// Release frees the claim after a failed migration so the client can retry.
func (g *MigrationGuard) Release(ctx context.Context, guestID string) error {
	if err := g.client.Del(ctx, guardKey(guestID)).Err(); err != nil {
		return fmt.Errorf("failed to release migration guard: %w", err)
	}
	return nil
}

// Owner returns the user a guest was migrated into, or "" when unclaimed.
func (g *MigrationGuard) Owner(ctx context.Context, guestID string) (string, error) {
	userID, err := g.client.Get(ctx, guardKey(guestID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read migration guard: %w", err)
	}
	return userID, nil
}
