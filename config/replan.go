package config

// ReplanConfig controls automatic rescheduling. The horizon is anchored
// at "now", so the schedule must be re-derived periodically even when no
// input changes; the cron trigger rolls it forward.
type ReplanConfig struct {
	// Cron is a robfig/cron expression for the periodic pass.
	Cron string `json:"cron"`
	// WatchConfig reloads scheduler settings from the config file on
	// change, triggering a reschedule.
	WatchConfig bool `json:"watch_config"`
}

// SetDefaults applies a 15 minute replan interval.
func (c *ReplanConfig) SetDefaults() {
	if c.Cron == "" {
		c.Cron = "*/15 * * * *"
	}
}
