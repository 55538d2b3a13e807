// Package merkle builds and verifies the binary Merkle tree over
// transaction hashes that backs each block's header.
package merkle

import (
	"github.com/yourusername/astro/internal/crypto"
)

// Step is one level of an inclusion proof: the sibling digest and
// whether it sits to the left of the running hash during verification.
type Step struct {
	Sibling crypto.Hash256
	OnLeft  bool
}

// Proof is an ordered sequence of Steps from a leaf up to the root.
type Proof []Step

// Root computes the Merkle root over leaves. An empty set hashes to
// sha256(""). Otherwise adjacent leaves are paired left-to-right,
// duplicating the last one when a level has odd length, until exactly
// one digest remains; that digest is then folded into the root by one
// final self-concatenation, sha256(top ‖ top) — the same rule that
// makes a genuinely single-leaf tree's root sha256(L ‖ L).
func Root(leaves []crypto.Hash256) crypto.Hash256 {
	if len(leaves) == 0 {
		return crypto.Sha256(nil)
	}
	level := make([]crypto.Hash256, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		level = nextLevel(level)
	}
	top := level[0]
	return crypto.HashConcat(top[:], top[:])
}

func nextLevel(level []crypto.Hash256) []crypto.Hash256 {
	next := make([]crypto.Hash256, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		left := level[i]
		right := level[i]
		if i+1 < len(level) {
			right = level[i+1]
		}
		next = append(next, crypto.HashConcat(left[:], right[:]))
	}
	return next
}

// BuildProof walks the same levels Root does, recording at each level
// the sibling of the element at index and whether that sibling sits to
// the left, then appends one final self-referential step for Root's
// terminal self-concatenation.
func BuildProof(leaves []crypto.Hash256, index int) Proof {
	if len(leaves) == 0 {
		return nil
	}
	level := make([]crypto.Hash256, len(leaves))
	copy(level, leaves)
	idx := index

	var proof Proof
	for len(level) > 1 {
		last := len(level) - 1
		var siblingIdx int
		var onLeft bool
		if idx%2 == 0 {
			if idx+1 <= last {
				siblingIdx = idx + 1
			} else {
				siblingIdx = idx
			}
			onLeft = false
		} else {
			siblingIdx = idx - 1
			onLeft = true
		}
		proof = append(proof, Step{Sibling: level[siblingIdx], OnLeft: onLeft})

		idx /= 2
		level = nextLevel(level)
	}
	proof = append(proof, Step{Sibling: level[0], OnLeft: false})
	return proof
}

// VerifyProof replays proof's steps starting from leafHash and compares
// the terminal value to expectedRoot.
func VerifyProof(leafHash crypto.Hash256, proof Proof, expectedRoot crypto.Hash256) bool {
	current := leafHash
	for _, step := range proof {
		if step.OnLeft {
			current = crypto.HashConcat(step.Sibling[:], current[:])
		} else {
			current = crypto.HashConcat(current[:], step.Sibling[:])
		}
	}
	return current == expectedRoot
}
