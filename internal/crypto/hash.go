// Package crypto implements astro's hash and signing primitives: SHA-256
// digests, hash160 addressing hashes, EC keypair generation over
// secp256k1, and DER-encoded ECDSA sign/verify. It also owns the
// process-wide crypto lifecycle (Init/Shutdown).
package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/ripemd160"
)

// Hash256 is a 32-byte SHA-256 digest. The all-zero value is the
// canonical "no previous block" sentinel used by genesis headers.
type Hash256 [32]byte

// Hash160 is a 20-byte RIPEMD-160(SHA-256(x)) digest.
type Hash160 [20]byte

// IsZero reports whether h is the all-zero sentinel.
func (h Hash256) IsZero() bool {
	return h == Hash256{}
}

// Bytes returns a copy of the digest as a plain byte slice.
func (h Hash256) Bytes() []byte {
	out := make([]byte, len(h))
	copy(out, h[:])
	return out
}

// Sha256 returns the SHA-256 digest of data.
func Sha256(data []byte) Hash256 {
	return Hash256(sha256.Sum256(data))
}

// Hash160Of returns RIPEMD-160(SHA-256(data)).
func Hash160Of(data []byte) Hash160 {
	first := sha256.Sum256(data)
	hasher := ripemd160.New()
	hasher.Write(first[:])
	var out Hash160
	copy(out[:], hasher.Sum(nil))
	return out
}

// HashConcat returns sha256(l || r), the pairwise hash used by the
// Merkle tree.
func HashConcat(l, r []byte) Hash256 {
	buf := make([]byte, 0, len(l)+len(r))
	buf = append(buf, l...)
	buf = append(buf, r...)
	return Sha256(buf)
}

// ToHex lower-cases and zero-pads b into a hex string.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}
