// Package config loads the demo entry point's process configuration.
// Nothing under internal/chain, internal/block, internal/pow, or
// internal/store reads the environment directly; only cmd/astro wires
// this package in, keeping the core testable without env state.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the demo driver's runtime configuration.
type Config struct {
	DataDir          string
	DifficultyBits   uint32
	MiningTickEvery  uint64
	GenesisNote      string
	EnforceGenesisPOW bool
}

// Load reads a .env file if present (missing is not an error) and
// overlays environment variables on top of the defaults below.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	cfg := Config{
		DataDir:           "./data",
		DifficultyBits:    16,
		MiningTickEvery:   100_000,
		GenesisNote:       "astro genesis",
		EnforceGenesisPOW: false,
	}

	if v := os.Getenv("ASTRO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ASTRO_DIFFICULTY_BITS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Config{}, err
		}
		cfg.DifficultyBits = uint32(n)
	}
	if v := os.Getenv("ASTRO_MINING_TICK_EVERY"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, err
		}
		cfg.MiningTickEvery = n
	}
	if v := os.Getenv("ASTRO_GENESIS_NOTE"); v != "" {
		cfg.GenesisNote = v
	}
	if v := os.Getenv("ASTRO_ENFORCE_GENESIS_POW"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, err
		}
		cfg.EnforceGenesisPOW = b
	}

	return cfg, nil
}
