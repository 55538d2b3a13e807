// Package chain implements the in-memory block sequence, its
// validation rules, and the append/persist/restore pipelines.
package chain

import (
	"fmt"

	"github.com/yourusername/astro/internal/block"
	"github.com/yourusername/astro/internal/crypto"
	"github.com/yourusername/astro/internal/pow"
)

// Config holds the chain's validation parameters.
type Config struct {
	DifficultyBits    uint32
	EnforceGenesisPOW bool
}

// Store is the append-and-restore contract the chain needs from a
// block log; internal/store.Store satisfies it structurally.
type Store interface {
	AppendBlock(b block.Block) error
	LoadAll() ([]block.Block, error)
}

// Result is the structured outcome of ValidateBlock.
type Result struct {
	OK      bool
	Err     *ValidationError
	TxIndex int
}

func ok() Result {
	return Result{OK: true, TxIndex: NoTxIndex}
}

func fail(err *ValidationError) Result {
	return Result{OK: false, Err: err, TxIndex: err.TxIndex}
}

// Chain is an in-memory ordered sequence of validated blocks.
type Chain struct {
	cfg    Config
	blocks []block.Block
}

// New returns an empty chain with the given configuration.
func New(cfg Config) *Chain {
	return &Chain{cfg: cfg}
}

// Height reports the number of blocks in the chain.
func (c *Chain) Height() int {
	return len(c.blocks)
}

// BlockAt returns the block at index i.
func (c *Chain) BlockAt(i int) block.Block {
	return c.blocks[i]
}

// TipHash returns the header hash of the tip block, or the zero hash
// if the chain is empty.
func (c *Chain) TipHash() crypto.Hash256 {
	if len(c.blocks) == 0 {
		return crypto.Hash256{}
	}
	tip := c.blocks[len(c.blocks)-1]
	return tip.Header.HeaderHash()
}

// SetDifficultyBits adjusts the difficulty enforced on future appends.
func (c *Chain) SetDifficultyBits(bits uint32) {
	c.cfg.DifficultyBits = bits
}

// ValidateBlock applies the chain's validation rules, in order, to a
// candidate block. It never panics or returns a Go error; all failure
// information lives in the returned Result.
func (c *Chain) ValidateBlock(b block.Block) Result {
	if len(c.blocks) == 0 {
		if !b.Header.PrevHash.IsZero() {
			return fail(newErr(ErrNonZeroPrevHashForGenesis))
		}
		if len(b.Transactions) > 0 && !b.Transactions[0].IsCoinbase() {
			return fail(newErrAt(ErrCoinbaseMisplaced, 0))
		}
		for i := 1; i < len(b.Transactions); i++ {
			if b.Transactions[i].IsCoinbase() {
				return fail(newErrAt(ErrCoinbaseMisplaced, i))
			}
		}
	} else {
		tip := c.blocks[len(c.blocks)-1]
		if b.Header.PrevHash != tip.Header.HeaderHash() {
			return fail(newErr(ErrBadPrevLink))
		}
		if b.Header.Timestamp < tip.Header.Timestamp {
			return fail(newErr(ErrNonMonotonicTimestamp))
		}
		for i := range b.Transactions {
			if b.Transactions[i].IsCoinbase() {
				return fail(newErrAt(ErrCoinbaseInNonGenesisBlock, i))
			}
		}
	}

	if block.ComputeMerkleRoot(b.Transactions) != b.Header.MerkleRoot {
		return fail(newErr(ErrBadMerkleRoot))
	}

	genesisCandidate := len(c.blocks) == 0
	for i := range b.Transactions {
		permittedCoinbase := genesisCandidate && i == 0 && b.Transactions[i].IsCoinbase()
		if permittedCoinbase {
			continue
		}
		if !b.Transactions[i].Verify() {
			return fail(newErrAt(ErrBadTransactionSignature, i))
		}
	}

	enforcePOW := c.cfg.DifficultyBits > 0 && (!genesisCandidate || c.cfg.EnforceGenesisPOW)
	if enforcePOW {
		if !pow.MeetsDifficulty(c.cfg.DifficultyBits, b.Header.HeaderHash()) {
			return fail(newErr(ErrInsufficientPOW))
		}
	}

	return ok()
}

// AppendBlock validates b and, on success, appends it in memory.
func (c *Chain) AppendBlock(b block.Block) Result {
	res := c.ValidateBlock(b)
	if !res.OK {
		return res
	}
	c.blocks = append(c.blocks, b)
	return res
}

// AppendAndStore validates b, persists it via store (which must fsync
// before returning), and only then appends it in memory. A persistence
// failure leaves the chain unchanged and is reported as a
// PersistenceFailed result rather than a Go error.
func (c *Chain) AppendAndStore(b block.Block, store Store) Result {
	res := c.ValidateBlock(b)
	if !res.OK {
		return res
	}
	if err := store.AppendBlock(b); err != nil {
		return fail(newErr(ErrPersistenceFailed))
	}
	c.blocks = append(c.blocks, b)
	return res
}

// RestoreFromStore reads store's block sequence and re-validates and
// appends each block in order. The first validation failure stops
// restoration silently; a torn tail write is treated as truncation,
// not an error.
func (c *Chain) RestoreFromStore(store Store) error {
	blocks, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("chain: restore: %w", err)
	}
	for _, b := range blocks {
		if res := c.AppendBlock(b); !res.OK {
			break
		}
	}
	return nil
}

// BuildBlockFromTransactions produces an unvalidated candidate block:
// version 1, prev_hash = tip hash (or zero), Merkle root over txs,
// the given timestamp, and nonce 0. Callers must run it through
// AppendBlock or AppendAndStore.
func (c *Chain) BuildBlockFromTransactions(txs []block.Transaction, ts uint64) block.Block {
	return block.Block{
		Header: block.BlockHeader{
			Version:    1,
			PrevHash:   c.TipHash(),
			MerkleRoot: block.ComputeMerkleRoot(txs),
			Timestamp:  ts,
			Nonce:      0,
		},
		Transactions: txs,
	}
}
