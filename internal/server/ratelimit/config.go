// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"time"
)

// Tier defines a rate limit tier. All tiers are keyed by client IP since
// the API carries no authentication.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Config holds rate limiters for the write and read tiers.
type Config struct {
	Write Tier
	Read  Tier
}

// NewConfig creates a Config with the given per-minute limits. Burst is a
// sixth of the per-minute rate, matching the write tier's shape: short
// editing flurries pass, sustained hammering does not.
func NewConfig(writePerMin, readPerMin int) *Config {
	return &Config{
		Write: Tier{
			Name:    "write",
			Limiter: NewLimiter(writePerMin, time.Minute, max(writePerMin/6, 1)),
		},
		Read: Tier{
			Name:    "read",
			Limiter: NewLimiter(readPerMin, time.Minute, max(readPerMin/6, 1)),
		},
	}
}

// Match returns the tier for a request, or nil for paths that should not
// be rate limited.
func (c *Config) Match(method, path string) *Tier {
	// Skip health check.
	if path == "/api/health" {
		return nil
	}

	switch method {
	case "POST", "PUT", "DELETE":
		return &c.Write
	case "GET":
		return &c.Read
	}
	return nil
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	c.Write.Limiter.Close()
	c.Read.Limiter.Close()
}

// BuildKey creates a rate limit bucket key from the client IP and tier name.
func BuildKey(ip, tierName string) string {
	return "ip:" + ip + ":" + tierName
}
