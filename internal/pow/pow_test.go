package pow

import (
	"sync/atomic"
	"testing"

	"github.com/yourusername/astro/internal/block"
	"github.com/yourusername/astro/internal/crypto"
)

func TestLeadingZeroBitsAllZero(t *testing.T) {
	var h crypto.Hash256
	if got := LeadingZeroBits(h); got != 256 {
		t.Errorf("LeadingZeroBits(all-zero) = %d, want 256", got)
	}
}

func TestLeadingZeroBitsFirstByte0x7F(t *testing.T) {
	var h crypto.Hash256
	h[0] = 0x7F
	if got := LeadingZeroBits(h); got != 1 {
		t.Errorf("LeadingZeroBits(0x7F...) = %d, want 1", got)
	}
}

func TestLeadingZeroBitsMixed(t *testing.T) {
	var h crypto.Hash256
	h[1] = 0x01 // first byte all zero (8 bits), second byte's last bit set
	if got := LeadingZeroBits(h); got != 15 {
		t.Errorf("LeadingZeroBits = %d, want 15", got)
	}
}

func TestMeetsDifficulty(t *testing.T) {
	var h crypto.Hash256
	h[0] = 0x0F // 4 leading zero bits
	if !MeetsDifficulty(4, h) {
		t.Error("MeetsDifficulty(4, h) = false, want true")
	}
	if MeetsDifficulty(5, h) {
		t.Error("MeetsDifficulty(5, h) = true, want false")
	}
}

func TestMineMeetsRequestedDifficulty(t *testing.T) {
	kp, err := crypto.GenerateKeyPair(crypto.DefaultCurve)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	tx := block.Transaction{Version: 1, Nonce: 1, Amount: 1, FromPubPEM: kp.PublicKeyPEM, ToLabel: "bob"}
	if err := tx.Sign(kp.PrivateKeyPEM); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	const difficulty = 8
	mined, err := Mine(crypto.Hash256{}, []block.Transaction{tx}, difficulty, nil, nil, 0)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}

	got := LeadingZeroBits(mined.Header.HeaderHash())
	if got < difficulty {
		t.Errorf("mined header has %d leading zero bits, want >= %d", got, difficulty)
	}
}

func TestMineRespectsCancelFlag(t *testing.T) {
	var cancel atomic.Bool
	cancel.Store(true)

	_, err := Mine(crypto.Hash256{}, nil, 64, &cancel, nil, 0)
	if err != ErrCancelled {
		t.Errorf("Mine() err = %v, want ErrCancelled", err)
	}
}

func TestMineReportsProgress(t *testing.T) {
	var calls int
	onProgress := func(attempts uint64, lastLeadingZeros uint32, hashHex string) {
		calls++
	}

	// Difficulty 16 keeps the first attempt from winning (which would
	// return before any progress tick) in all but about 1 in 65536 runs.
	if _, err := Mine(crypto.Hash256{}, nil, 16, nil, onProgress, 1); err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if calls == 0 {
		t.Error("onProgress was never called despite tickEvery == 1")
	}
}
