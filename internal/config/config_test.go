package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ASTRO_DATA_DIR",
		"ASTRO_DIFFICULTY_BITS",
		"ASTRO_MINING_TICK_EVERY",
		"ASTRO_GENESIS_NOTE",
		"ASTRO_ENFORCE_GENESIS_POW",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want ./data", cfg.DataDir)
	}
	if cfg.DifficultyBits != 16 {
		t.Errorf("DifficultyBits = %d, want 16", cfg.DifficultyBits)
	}
	if cfg.MiningTickEvery != 100_000 {
		t.Errorf("MiningTickEvery = %d, want 100000", cfg.MiningTickEvery)
	}
	if cfg.EnforceGenesisPOW {
		t.Error("EnforceGenesisPOW = true, want false by default")
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASTRO_DATA_DIR", "/tmp/astro-data")
	t.Setenv("ASTRO_DIFFICULTY_BITS", "20")
	t.Setenv("ASTRO_MINING_TICK_EVERY", "50000")
	t.Setenv("ASTRO_GENESIS_NOTE", "custom note")
	t.Setenv("ASTRO_ENFORCE_GENESIS_POW", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/tmp/astro-data" {
		t.Errorf("DataDir = %q, want /tmp/astro-data", cfg.DataDir)
	}
	if cfg.DifficultyBits != 20 {
		t.Errorf("DifficultyBits = %d, want 20", cfg.DifficultyBits)
	}
	if cfg.MiningTickEvery != 50000 {
		t.Errorf("MiningTickEvery = %d, want 50000", cfg.MiningTickEvery)
	}
	if cfg.GenesisNote != "custom note" {
		t.Errorf("GenesisNote = %q, want %q", cfg.GenesisNote, "custom note")
	}
	if !cfg.EnforceGenesisPOW {
		t.Error("EnforceGenesisPOW = false, want true")
	}
}

func TestLoadRejectsMalformedDifficulty(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASTRO_DIFFICULTY_BITS", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want a parse error for malformed ASTRO_DIFFICULTY_BITS")
	}
}
