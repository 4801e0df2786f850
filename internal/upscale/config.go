package upscale

import (
	"runtime"
	"time"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
)

// Config holds admission tunables.
type Config struct {
	// MaxInflight bounds concurrent backend invocations. Defaults to GOMAXPROCS.
	MaxInflight int
	// MaxQueueDepth bounds requests waiting for an in-flight slot.
	MaxQueueDepth int
	// MaxWait bounds how long a request may wait for each slot before 429.
	MaxWait time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxInflight <= 0 {
		c.MaxInflight = runtime.GOMAXPROCS(0)
	}
	if c.MaxQueueDepth <= 0 {
		c.MaxQueueDepth = defaultMaxQueueDepth
	}
	if c.MaxWait <= 0 {
		c.MaxWait = defaultMaxWait
	}
	return c
}
