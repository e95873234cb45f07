package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"pawnpool/native/pawn"
)

// Config captures the runtime settings for the pool ledger and its replay
// driver.
type Config struct {
	// OwnerAddress is the pool owner entitled to fee sweeps and parameter
	// changes, as a 0x-prefixed hex address.
	OwnerAddress string `toml:"OwnerAddress"`
	// DataDir holds the leveldb state snapshot.
	DataDir string `toml:"DataDir"`
	// JournalPath points at the JSONL command journal to replay.
	JournalPath string `toml:"JournalPath"`
	// IndexPath is the sqlite file the event indexer writes to. Empty
	// disables indexing.
	IndexPath string `toml:"IndexPath"`
	// Environment tags log output (e.g. "dev", "prod").
	Environment string `toml:"Environment"`

	Pool PoolConfig `toml:"pool"`
}

// PoolConfig mirrors the owner-controlled pool parameters.
type PoolConfig struct {
	LTVPercent    uint64 `toml:"LTVPercent"`
	APRBps        uint64 `toml:"APRBps"`
	DepositFeeBps uint64 `toml:"DepositFeeBps"`
}

// Load reads the configuration from path, back-filling defaults for missing
// fields. A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyDefaults()
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./pawn-data"
	}
	if strings.TrimSpace(c.Environment) == "" {
		c.Environment = "dev"
	}
	defaults := pawn.DefaultParams()
	if c.Pool.LTVPercent == 0 {
		c.Pool.LTVPercent = defaults.LTVPercent
	}
	if c.Pool.APRBps == 0 {
		c.Pool.APRBps = defaults.APRBps
	}
	if c.Pool.DepositFeeBps == 0 {
		c.Pool.DepositFeeBps = defaults.DepositFeeBps
	}
}

// Validate rejects configurations the engine would refuse.
func (c *Config) Validate() error {
	if addr := strings.TrimSpace(c.OwnerAddress); addr != "" {
		if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
			return fmt.Errorf("config: OwnerAddress %q is not a 20-byte hex address", c.OwnerAddress)
		}
	}
	return c.Params().Validate()
}

// Params converts the pool section into engine parameters.
func (c *Config) Params() pawn.Params {
	return pawn.Params{
		LTVPercent:    c.Pool.LTVPercent,
		APRBps:        c.Pool.APRBps,
		DepositFeeBps: c.Pool.DepositFeeBps,
	}
}
