package params

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Engine.TickInterval != 100*time.Millisecond {
		t.Errorf("tick interval = %v, want 100ms", cfg.Engine.TickInterval)
	}
	if cfg.Engine.InitialPrice != 100.0 {
		t.Errorf("initial price = %v, want 100.0", cfg.Engine.InitialPrice)
	}
	if !cfg.API.Enabled || cfg.API.Addr == "" {
		t.Errorf("api defaults = %+v, want enabled with addr", cfg.API)
	}
	if cfg.Feeder.Enabled {
		t.Error("feeder should default to disabled")
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("TICK_INTERVAL_MS", "25")
	t.Setenv("INITIAL_PRICE", "42.5")
	t.Setenv("API_ADDR", ":9999")
	t.Setenv("API_ENABLED", "false")
	t.Setenv("ENABLE_FEEDER", "true")
	t.Setenv("FEEDER_SYMBOLS", "AAPL, MSFT ,,GOOG")

	cfg := LoadFromEnv("")

	if cfg.Engine.TickInterval != 25*time.Millisecond {
		t.Errorf("tick interval = %v, want 25ms", cfg.Engine.TickInterval)
	}
	if cfg.Engine.InitialPrice != 42.5 {
		t.Errorf("initial price = %v, want 42.5", cfg.Engine.InitialPrice)
	}
	if cfg.API.Addr != ":9999" || cfg.API.Enabled {
		t.Errorf("api = %+v, want addr :9999 disabled", cfg.API)
	}
	if !cfg.Feeder.Enabled {
		t.Error("feeder should be enabled")
	}
	want := []string{"AAPL", "MSFT", "GOOG"}
	if len(cfg.Feeder.Symbols) != len(want) {
		t.Fatalf("symbols = %v, want %v", cfg.Feeder.Symbols, want)
	}
	for i := range want {
		if cfg.Feeder.Symbols[i] != want[i] {
			t.Errorf("symbols[%d] = %s, want %s", i, cfg.Feeder.Symbols[i], want[i])
		}
	}
}

func TestLoadFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("TICK_INTERVAL_MS", "not-a-number")
	t.Setenv("INITIAL_PRICE", "-5")

	cfg := LoadFromEnv("")
	if cfg.Engine.TickInterval != 100*time.Millisecond {
		t.Errorf("tick interval = %v, want default 100ms", cfg.Engine.TickInterval)
	}
	if cfg.Engine.InitialPrice != 100.0 {
		t.Errorf("initial price = %v, want default 100.0", cfg.Engine.InitialPrice)
	}
}
