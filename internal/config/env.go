package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// parseSeconds reads a duration from an env value. A bare integer counts
// seconds; anything else goes through time.ParseDuration. Surrounding quotes
// left by .env loaders are dropped.
func parseSeconds(raw string) (time.Duration, error) {
	v := strings.Trim(strings.TrimSpace(raw), `"'`)
	if v == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("duration %q is negative", v)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

// applyURL overwrites the connection fields from a redis:// or rediss:// URL.
func (r *RedisConfig) applyURL(raw string) error {
	opt, err := redis.ParseURL(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if opt.DB < 0 {
		return fmt.Errorf("db must be a non-negative number, got %d", opt.DB)
	}
	r.Addr = opt.Addr
	r.Username = opt.Username
	r.Password = opt.Password
	r.DB = opt.DB
	r.TLS = opt.TLSConfig != nil
	return nil
}
