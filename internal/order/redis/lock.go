package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-storefront/internal/logger"
)

const cartLockPrefix = "cart_lock:"

// Releases the lock only when it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis guards carts against concurrent checkouts across instances.
type Redis struct {
	Client  *redis.Client
	Logger  *logger.Logger
	LockTTL time.Duration
}

func NewRedis(client *redis.Client, lockTTL time.Duration, log *logger.Logger) *Redis {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Redis{
		Client:  client,
		Logger:  log,
		LockTTL: lockTTL,
	}
}

func cartKey(cartID string) string {
	return cartLockPrefix + cartID
}

// LockCart takes the cart for token. It returns false when another checkout
// already holds it.
func (r *Redis) LockCart(ctx context.Context, cartID, token string) (bool, error) {
	ok, err := r.Client.SetNX(ctx, cartKey(cartID), token, r.LockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("lock cart %s: %w", cartID, err)
	}
	if !ok {
		r.Logger.Warn("REDIS", fmt.Sprintf("Cart %s is already locked", cartID))
	}
	return ok, nil
}

// UnlockCart releases the cart if token still owns the lock.
func (r *Redis) UnlockCart(ctx context.Context, cartID, token string) error {
	if err := unlockScript.Run(ctx, r.Client, []string{cartKey(cartID)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("unlock cart %s: %w", cartID, err)
	}
	return nil
}
