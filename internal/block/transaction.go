// Package block implements astro's transaction and block data model:
// canonical encoding, hashing, signing, and genesis construction.
package block

import (
	"errors"

	"github.com/yourusername/astro/internal/codec"
	"github.com/yourusername/astro/internal/crypto"
)

// txMagic are the two leading bytes of every transaction encoding.
var txMagic = [2]byte{0xA1, 0x01}

const txSchema uint32 = 1

// ErrInvalidTransaction marks a decode failure in the transaction
// framing (bad magic or schema).
var ErrInvalidTransaction = errors.New("block: invalid transaction encoding")

// Transaction is a transfer authorization. A Transaction with an empty
// FromPubPEM is a coinbase and carries an empty Signature.
type Transaction struct {
	Version    uint32
	Nonce      uint64
	Amount     uint64
	FromPubPEM []byte
	ToLabel    string
	Signature  []byte
}

// IsCoinbase reports whether t has no sender, the coinbase convention.
func (t *Transaction) IsCoinbase() bool {
	return len(t.FromPubPEM) == 0
}

func (t *Transaction) encode(withSignature bool) []byte {
	w := codec.NewWriter()
	w.WriteRaw(txMagic[:])
	w.WriteU32(txSchema)
	w.WriteU32(t.Version)
	w.WriteU64(t.Nonce)
	w.WriteU64(t.Amount)
	w.WriteBytes(t.FromPubPEM)
	w.WriteString(t.ToLabel)
	if withSignature {
		w.WriteBytes(t.Signature)
	} else {
		w.WriteU32(0)
	}
	return w.Bytes()
}

// SigningPreimage is the canonical encoding with the signature field
// replaced by a zero length, i.e. what Sign and Verify operate over.
func (t *Transaction) SigningPreimage() []byte {
	return t.encode(false)
}

// Serialize is the full canonical encoding including the signature
// field, used for hashing into a block and for on-disk persistence.
func (t *Transaction) Serialize() []byte {
	return t.encode(true)
}

// TxHash is SHA-256 of the signing preimage, stable before and after
// signing.
func (t *Transaction) TxHash() crypto.Hash256 {
	return crypto.Sha256(t.SigningPreimage())
}

// Sign sets t.Signature to a DER-encoded ECDSA signature over the
// signing preimage under privKeyPEM.
func (t *Transaction) Sign(privKeyPEM []byte) error {
	sig, err := crypto.Sign(privKeyPEM, t.SigningPreimage())
	if err != nil {
		return err
	}
	t.Signature = sig
	return nil
}

// Verify checks t.Signature against FromPubPEM over the signing
// preimage. A transaction with no sender (a coinbase) never verifies
// through this path; callers permit coinbases by construction, not by
// Verify returning true for them.
func (t *Transaction) Verify() bool {
	if len(t.FromPubPEM) == 0 {
		return false
	}
	return crypto.Verify(t.FromPubPEM, t.SigningPreimage(), t.Signature)
}

// DecodeTransaction reads one transaction (full form, with signature)
// from r.
func DecodeTransaction(r *codec.Reader) (Transaction, error) {
	var tx Transaction

	magic, err := r.ReadRaw(2)
	if err != nil {
		return tx, err
	}
	if magic[0] != txMagic[0] || magic[1] != txMagic[1] {
		return tx, ErrInvalidTransaction
	}
	schema, err := r.ReadU32()
	if err != nil {
		return tx, err
	}
	if schema != txSchema {
		return tx, ErrInvalidTransaction
	}
	if tx.Version, err = r.ReadU32(); err != nil {
		return tx, err
	}
	if tx.Nonce, err = r.ReadU64(); err != nil {
		return tx, err
	}
	if tx.Amount, err = r.ReadU64(); err != nil {
		return tx, err
	}
	if tx.FromPubPEM, err = r.ReadBytes(); err != nil {
		return tx, err
	}
	if tx.ToLabel, err = r.ReadString(); err != nil {
		return tx, err
	}
	if tx.Signature, err = r.ReadBytes(); err != nil {
		return tx, err
	}
	return tx, nil
}
