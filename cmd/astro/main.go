// Command astro is a thin demo driver over the core chain: it wires
// configuration, logging, the block log store, and the miner together
// to grow a small local chain. It is an external collaborator of the
// core, not part of it — exit codes and flags here are demo
// conveniences, not a specified interface.
package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/astro/internal/block"
	"github.com/yourusername/astro/internal/chain"
	"github.com/yourusername/astro/internal/config"
	"github.com/yourusername/astro/internal/crypto"
	"github.com/yourusername/astro/internal/pow"
	"github.com/yourusername/astro/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "astro:", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := crypto.Init(); err != nil {
		return fmt.Errorf("crypto init: %w", err)
	}
	defer crypto.Shutdown()

	log := logger.With(
		zap.String("data_dir", cfg.DataDir),
		zap.Uint32("difficulty_bits", cfg.DifficultyBits),
	)

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	c := chain.New(chain.Config{
		DifficultyBits:    cfg.DifficultyBits,
		EnforceGenesisPOW: cfg.EnforceGenesisPOW,
	})
	if err := c.RestoreFromStore(st); err != nil {
		return fmt.Errorf("restore chain: %w", err)
	}
	log.Info("restored chain", zap.Int("height", c.Height()))

	if c.Height() == 0 {
		genesis := block.MakeGenesisBlock(cfg.GenesisNote, uint64(time.Now().Unix()))
		if res := c.AppendAndStore(genesis, st); !res.OK {
			return fmt.Errorf("append genesis: %s", res.Err)
		}
		log.Info("appended genesis block")
	}

	kp, err := crypto.GenerateKeyPair(crypto.DefaultCurve)
	if err != nil {
		return fmt.Errorf("generate demo keypair: %w", err)
	}
	tx := block.Transaction{
		Version:    1,
		Nonce:      uint64(time.Now().UnixNano()),
		Amount:     1,
		FromPubPEM: kp.PublicKeyPEM,
		ToLabel:    "demo-recipient",
	}
	if err := tx.Sign(kp.PrivateKeyPEM); err != nil {
		return fmt.Errorf("sign demo transaction: %w", err)
	}

	var cancel atomic.Bool
	onProgress := func(attempts uint64, leadingZeros uint32, hashHex string) {
		log.Info("mining",
			zap.Uint64("attempts", attempts),
			zap.Uint32("leading_zero_bits", leadingZeros),
			zap.String("hash", hashHex),
		)
	}

	mined, err := pow.Mine(c.TipHash(), []block.Transaction{tx}, cfg.DifficultyBits, &cancel, onProgress, cfg.MiningTickEvery)
	if err != nil {
		return fmt.Errorf("mine block: %w", err)
	}

	if res := c.AppendAndStore(mined, st); !res.OK {
		return fmt.Errorf("append mined block: %s", res.Err)
	}

	log.Info("appended mined block",
		zap.Int("height", c.Height()),
		zap.String("tip_hash", crypto.ToHex(c.TipHash().Bytes())),
	)
	return nil
}
