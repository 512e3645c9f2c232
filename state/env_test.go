package state

import (
	"context"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"pbc/config"
	"pbc/style"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.Jobs != 1 {
		t.Errorf("Jobs = %d, want 1", env.Jobs)
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now()}

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()
	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	env := &LocalEnv{
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}

	for i := range 3 {
		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Errorf("Iteration %d: restoreStdLog not set", i)
		}
		env.RestoreStdLog()
	}

	// nil logger is tolerated
	env = &LocalEnv{}
	env.RedirectStdLog()
	env.RestoreStdLog()
}

func TestLocalEnv_Configure(t *testing.T) {
	cfg := &config.Config{
		Version: 1,
		Theme: config.ThemeConfig{
			Palette:   []style.ColorPreset{{Slug: "ink", Color: "#111"}},
			FontSizes: []style.FontSizePreset{{Slug: "small", Size: "13px"}},
		},
	}

	tests := []struct {
		name     string
		cfgJobs  int
		argJobs  int
		wantJobs int
	}{
		{"argument wins", 3, 5, 5},
		{"configuration", 3, 0, 3},
		{"cpus", 0, 0, runtime.NumCPU()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.Conversion.Jobs = tt.cfgJobs
			env := EnvFromContext(ContextWithEnv(context.Background()))
			env.Configure(cfg, tt.argJobs)

			if env.Jobs != tt.wantJobs {
				t.Errorf("Jobs = %d, want %d", env.Jobs, tt.wantJobs)
			}
			if env.Cfg != cfg {
				t.Error("Cfg not set")
			}
			if slug, ok := env.Presets.MatchColor("#111111"); !ok || slug != "ink" {
				t.Errorf("MatchColor() = %q, %v", slug, ok)
			}
		})
	}
}
