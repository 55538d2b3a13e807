// Package pow implements astro's proof-of-work predicate and the
// cancellable nonce search used to mine new blocks.
package pow

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/yourusername/astro/internal/block"
	"github.com/yourusername/astro/internal/crypto"
)

// ErrCancelled is returned by Mine when the cancel flag is observed
// true before a satisfying nonce is found.
var ErrCancelled = errors.New("pow: mining cancelled")

// timestampBumpInterval is how many nonce attempts elapse between
// wall-clock rechecks that may bump the candidate's timestamp.
const timestampBumpInterval = 1_000_000

// LeadingZeroBits counts the leading zero bits of h, read big-endian
// (first byte, highest bit first). An all-zero digest reports 256.
func LeadingZeroBits(h crypto.Hash256) uint32 {
	var count uint32
	for _, b := range h {
		if b == 0 {
			count += 8
			continue
		}
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<uint(bit)) != 0 {
				return count
			}
			count++
		}
	}
	return count
}

// MeetsDifficulty reports whether h has at least bits leading zero bits.
func MeetsDifficulty(bits uint32, h crypto.Hash256) bool {
	return LeadingZeroBits(h) >= bits
}

// ProgressFunc is invoked periodically from the miner's own worker; it
// must be non-blocking and must not reach back into the chain.
type ProgressFunc func(attempts uint64, lastLeadingZeros uint32, hashHex string)

// Mine builds a candidate block on top of prevHash with the given
// transactions and searches nonces starting at 0 until the header hash
// meets difficultyBits, cancel reports true, or an iteration reports
// cancellation. tickEvery is a plain attempts counter (not a time
// interval, despite the conventional "tick_every_ms" name) controlling
// how often onProgress fires; a zero value disables progress callbacks.
func Mine(
	prevHash crypto.Hash256,
	txs []block.Transaction,
	difficultyBits uint32,
	cancel *atomic.Bool,
	onProgress ProgressFunc,
	tickEvery uint64,
) (block.Block, error) {
	now := time.Now().Unix()

	header := block.BlockHeader{
		Version:    1,
		PrevHash:   prevHash,
		MerkleRoot: block.ComputeMerkleRoot(txs),
		Timestamp:  uint64(now),
		Nonce:      0,
	}
	bumpedAt := now

	var attempts uint64
	var lastLeadingZeros uint32
	var lastHash crypto.Hash256

	for nonce := uint64(0); ; nonce++ {
		if cancel != nil && cancel.Load() {
			return block.Block{}, ErrCancelled
		}

		header.Nonce = nonce
		lastHash = header.HeaderHash()
		lastLeadingZeros = LeadingZeroBits(lastHash)
		attempts++

		if MeetsDifficulty(difficultyBits, lastHash) {
			return block.Block{Header: header, Transactions: txs}, nil
		}

		if attempts%timestampBumpInterval == 0 {
			if t := time.Now().Unix(); t > bumpedAt {
				header.Timestamp = uint64(t)
				bumpedAt = t
			}
		}

		if tickEvery > 0 && attempts%tickEvery == 0 && onProgress != nil {
			onProgress(attempts, lastLeadingZeros, crypto.ToHex(lastHash[:]))
		}
	}
}
