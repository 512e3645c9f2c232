package state

import (
	"runtime"
	"time"

	"pbc/config"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		Jobs:  1,
	}
}

// Configure derives values used by conversion from loaded configuration:
// preset tables and number of parallel jobs. Positive jobs argument (command
// line) overrides configuration, zero in both means number of CPUs.
func (e *LocalEnv) Configure(cfg *config.Config, jobs int) {
	e.Cfg = cfg
	e.Presets = cfg.Theme.Presets()

	switch {
	case jobs > 0:
		e.Jobs = jobs
	case cfg.Conversion.Jobs > 0:
		e.Jobs = cfg.Conversion.Jobs
	default:
		e.Jobs = runtime.NumCPU()
	}
}
