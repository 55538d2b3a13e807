package block

import (
	"github.com/yourusername/astro/internal/codec"
	"github.com/yourusername/astro/internal/crypto"
	"github.com/yourusername/astro/internal/merkle"
)

// Block is a header plus its ordered transactions.
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
}

// ComputeMerkleRoot returns the Merkle root over txs' tx hashes.
func ComputeMerkleRoot(txs []Transaction) crypto.Hash256 {
	leaves := make([]crypto.Hash256, len(txs))
	for i := range txs {
		leaves[i] = txs[i].TxHash()
	}
	return merkle.Root(leaves)
}

// Serialize returns header bytes followed by a u32 transaction count
// and, for each transaction, a u32 byte-length prefix and its full
// (with-signature) encoding.
func (b *Block) Serialize() []byte {
	w := codec.NewWriter()
	w.WriteRaw(b.Header.Encode())
	w.WriteU32(uint32(len(b.Transactions)))
	for i := range b.Transactions {
		encoded := b.Transactions[i].Serialize()
		w.WriteU32(uint32(len(encoded)))
		w.WriteRaw(encoded)
	}
	return w.Bytes()
}

// Decode reverses Serialize.
func Decode(data []byte) (Block, error) {
	var b Block
	r := codec.NewReader(data)

	header, err := DecodeHeader(r)
	if err != nil {
		return b, err
	}
	b.Header = header

	count, err := r.ReadU32()
	if err != nil {
		return b, err
	}
	b.Transactions = make([]Transaction, 0, count)
	for i := uint32(0); i < count; i++ {
		txLen, err := r.ReadU32()
		if err != nil {
			return b, err
		}
		txBytes, err := r.ReadRaw(int(txLen))
		if err != nil {
			return b, err
		}
		tx, err := DecodeTransaction(codec.NewReader(txBytes))
		if err != nil {
			return b, err
		}
		b.Transactions = append(b.Transactions, tx)
	}
	return b, nil
}

// MakeGenesisBlock builds a single-coinbase genesis candidate: version
// 1, zero prev_hash, the computed Merkle root, the given timestamp, and
// nonce 0.
func MakeGenesisBlock(note string, unixTime uint64) Block {
	coinbase := Transaction{
		Version: 1,
		ToLabel: note,
	}
	txs := []Transaction{coinbase}
	root := ComputeMerkleRoot(txs)

	return Block{
		Header: BlockHeader{
			Version:    1,
			MerkleRoot: root,
			Timestamp:  unixTime,
			Nonce:      0,
		},
		Transactions: txs,
	}
}
