package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Engine struct {
	// TickInterval paces the market-data publish loop.
	TickInterval time.Duration
	// InitialPrice seeds each symbol's synthetic price walk.
	InitialPrice float64
}

type API struct {
	Addr    string
	Enabled bool
}

type Feeder struct {
	Enabled   bool
	BatchSize int
	Interval  time.Duration
	Symbols   []string
}

type Config struct {
	Engine  Engine
	API     API
	Feeder  Feeder
	LogFile string
}

func Default() Config {
	return Config{
		Engine: Engine{
			TickInterval: 100 * time.Millisecond,
			InitialPrice: 100.0,
		},
		API: API{
			Addr:    ":8080",
			Enabled: true,
		},
		Feeder: Feeder{
			Enabled:   false,
			BatchSize: 10,
			Interval:  100 * time.Millisecond,
			Symbols:   []string{"AAPL"},
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if ms := os.Getenv("TICK_INTERVAL_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			cfg.Engine.TickInterval = time.Duration(v) * time.Millisecond
		}
	}
	if px := os.Getenv("INITIAL_PRICE"); px != "" {
		if v, err := strconv.ParseFloat(px, 64); err == nil && v > 0 {
			cfg.Engine.InitialPrice = v
		}
	}

	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}
	if enabled := os.Getenv("API_ENABLED"); enabled != "" {
		cfg.API.Enabled = enabled == "true"
	}

	if enabled := os.Getenv("ENABLE_FEEDER"); enabled != "" {
		cfg.Feeder.Enabled = enabled == "true"
	}
	if batch := os.Getenv("FEEDER_BATCH_SIZE"); batch != "" {
		if v, err := strconv.Atoi(batch); err == nil && v > 0 {
			cfg.Feeder.BatchSize = v
		}
	}
	if ms := os.Getenv("FEEDER_INTERVAL_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			cfg.Feeder.Interval = time.Duration(v) * time.Millisecond
		}
	}
	if syms := os.Getenv("FEEDER_SYMBOLS"); syms != "" {
		parts := strings.Split(syms, ",")
		symbols := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				symbols = append(symbols, p)
			}
		}
		if len(symbols) > 0 {
			cfg.Feeder.Symbols = symbols
		}
	}

	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg
}
