// Package chrome implements the rendering fetch capability: headless
// Chrome instances managed in a small pool, used when a target page is
// too JavaScript-heavy for plain HTTP fetching.
package chrome

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

// Config holds the configuration for the Chrome pool and instances
type Config struct {
	// PoolSize is "auto" or an integer string
	PoolSize string

	// NavTimeout bounds navigation plus readiness per page
	NavTimeout time.Duration
	// SettleTimeout bounds the post-readiness DOM stabilization wait
	SettleTimeout time.Duration
	// SettleInterval is the polling interval for DOM stabilization
	SettleInterval time.Duration

	// RestartAfterCount restarts an instance after this many renders
	RestartAfterCount int
}

// DefaultConfig returns the render defaults. The 3s settle timeout mirrors
// the wait a hand-tuned scrape of the target layout needed.
func DefaultConfig() *Config {
	return &Config{
		PoolSize:          "auto",
		NavTimeout:        30 * time.Second,
		SettleTimeout:     3 * time.Second,
		SettleInterval:    250 * time.Millisecond,
		RestartAfterCount: 100,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.PoolSize != "auto" {
		size, err := strconv.Atoi(c.PoolSize)
		if err != nil {
			return fmt.Errorf("pool size must be 'auto' or valid integer")
		}
		if size <= 0 {
			return fmt.Errorf("pool size must be positive")
		}
	}

	if c.NavTimeout <= 0 {
		return fmt.Errorf("nav timeout must be positive")
	}
	if c.SettleTimeout <= 0 {
		return fmt.Errorf("settle timeout must be positive")
	}
	if c.SettleInterval <= 0 || c.SettleInterval >= c.SettleTimeout {
		return fmt.Errorf("settle interval must be positive and below the settle timeout")
	}
	if c.RestartAfterCount <= 0 {
		return fmt.Errorf("restart after count must be positive")
	}

	return nil
}

// CalculatePoolSize determines the pool size. "auto" sizes from available
// RAM but caps low: the pagination crawl is strictly sequential, so extra
// instances only buy crash headroom.
func (c *Config) CalculatePoolSize() int {
	if c.PoolSize == "auto" {
		return c.calculateAutoPoolSize()
	}

	size, err := strconv.Atoi(c.PoolSize)
	if err != nil || size <= 0 {
		return c.calculateAutoPoolSize()
	}
	return size
}

func (c *Config) calculateAutoPoolSize() int {
	v, err := mem.VirtualMemory()
	var totalRAMBytes int64
	if err != nil {
		totalRAMBytes = int64(8 * 1024 * 1024 * 1024) // 8GB fallback
	} else {
		totalRAMBytes = int64(v.Total)
	}

	// Reserve 2GB for the system; each Chrome uses roughly 500MB.
	reservedBytes := int64(2 * 1024 * 1024 * 1024)
	chromeInstanceBytes := int64(500 * 1024 * 1024)

	poolSize := int((totalRAMBytes - reservedBytes) / chromeInstanceBytes)

	if poolSize < 1 {
		poolSize = 1
	}
	if poolSize > 2 {
		poolSize = 2
	}
	return poolSize
}
