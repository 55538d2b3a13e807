package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/astro/internal/block"
	"github.com/yourusername/astro/internal/crypto"
)

func genesisBlock(t *testing.T) block.Block {
	t.Helper()
	return block.MakeGenesisBlock("g", 1_700_000_000)
}

func signedBlock(t *testing.T, prev crypto.Hash256, ts uint64) block.Block {
	t.Helper()
	kp, err := crypto.GenerateKeyPair(crypto.DefaultCurve)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	tx := block.Transaction{Version: 1, Nonce: 1, Amount: 1, FromPubPEM: kp.PublicKeyPEM, ToLabel: "bob"}
	if err := tx.Sign(kp.PrivateKeyPEM); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	txs := []block.Transaction{tx}
	return block.Block{
		Header: block.BlockHeader{
			Version:    1,
			PrevHash:   prev,
			MerkleRoot: block.ComputeMerkleRoot(txs),
			Timestamp:  ts,
		},
		Transactions: txs,
	}
}

func TestAppendAndLoadAllRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	genesis := genesisBlock(t)
	b2 := signedBlock(t, genesis.Header.HeaderHash(), genesis.Header.Timestamp+1)

	if err := s.AppendBlock(genesis); err != nil {
		t.Fatalf("AppendBlock(genesis): %v", err)
	}
	if err := s.AppendBlock(b2); err != nil {
		t.Fatalf("AppendBlock(b2): %v", err)
	}

	loaded, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadAll returned %d blocks, want 2", len(loaded))
	}
	if loaded[0].Header.HeaderHash() != genesis.Header.HeaderHash() {
		t.Error("loaded[0] does not match genesis")
	}
	if loaded[1].Header.HeaderHash() != b2.Header.HeaderHash() {
		t.Error("loaded[1] does not match b2")
	}
}

func TestLoadAllStopsCleanlyOnTornTail(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	genesis := genesisBlock(t)
	if err := s.AppendBlock(genesis); err != nil {
		t.Fatalf("AppendBlock: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "chain.log"), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("reopen for torn write: %v", err)
	}
	if _, err := f.Write([]byte{0x52, 0x54, 0x53, 0x41, 0x01, 0x00}); err != nil {
		t.Fatalf("write torn tail: %v", err)
	}
	f.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	loaded, err := s2.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("LoadAll returned %d blocks, want 1 (torn tail discarded)", len(loaded))
	}
}

func TestTruncateClearsLog(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.AppendBlock(genesisBlock(t)); err != nil {
		t.Fatalf("AppendBlock: %v", err)
	}
	if err := s.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}

	loaded, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("LoadAll after Truncate returned %d blocks, want 0", len(loaded))
	}
}
