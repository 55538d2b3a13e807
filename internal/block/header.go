package block

import (
	"github.com/yourusername/astro/internal/codec"
	"github.com/yourusername/astro/internal/crypto"
)

// HeaderSize is the exact byte length of a serialized BlockHeader.
const HeaderSize = 4 + 32 + 32 + 8 + 8

// BlockHeader is the 84-byte fixed-size header preceding a block's
// transactions. PrevHash and MerkleRoot are encoded as raw bytes, not
// length-prefixed, per the canonical (bug-free) encoding.
type BlockHeader struct {
	Version    uint32
	PrevHash   crypto.Hash256
	MerkleRoot crypto.Hash256
	Timestamp  uint64
	Nonce      uint64
}

// Encode returns the canonical 84-byte serialization.
func (h *BlockHeader) Encode() []byte {
	w := codec.NewWriter()
	w.WriteU32(h.Version)
	w.WriteRaw(h.PrevHash[:])
	w.WriteRaw(h.MerkleRoot[:])
	w.WriteU64(h.Timestamp)
	w.WriteU64(h.Nonce)
	return w.Bytes()
}

// HeaderHash is SHA-256 over the canonical header encoding.
func (h *BlockHeader) HeaderHash() crypto.Hash256 {
	return crypto.Sha256(h.Encode())
}

// DecodeHeader reads one 84-byte header from r.
func DecodeHeader(r *codec.Reader) (BlockHeader, error) {
	var h BlockHeader
	var err error

	if h.Version, err = r.ReadU32(); err != nil {
		return h, err
	}
	prev, err := r.ReadRaw(32)
	if err != nil {
		return h, err
	}
	copy(h.PrevHash[:], prev)
	root, err := r.ReadRaw(32)
	if err != nil {
		return h, err
	}
	copy(h.MerkleRoot[:], root)
	if h.Timestamp, err = r.ReadU64(); err != nil {
		return h, err
	}
	if h.Nonce, err = r.ReadU64(); err != nil {
		return h, err
	}
	return h, nil
}
