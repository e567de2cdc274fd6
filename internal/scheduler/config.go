package scheduler

import "time"

type Config struct {
	// RunInterval is the fixed delay between scheduled pricing passes.
	RunInterval time.Duration
	// RunTimeout bounds a single pricing pass.
	RunTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.RunInterval <= 0 {
		c.RunInterval = 5 * time.Minute
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 2 * time.Minute
	}
	return c
}
