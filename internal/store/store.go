// Package store implements astro's length-framed, checksummed
// append-only block log with crash-tolerant scanning recovery.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yourusername/astro/internal/block"
	"github.com/yourusername/astro/internal/crypto"
)

const (
	recordMagic   uint32 = 0x41535452 // "ASTR"
	recordVersion uint64 = 1
	recordKind    uint16 = 1 // block

	recordHeaderSize = 4 + 8 + 2 + 8 // magic, version, kind, length
	checkSize        = 32
)

// errBadRecord marks a record whose framing (magic, version, kind) or
// trailing checksum did not match; it is used only internally to stop
// a scan, never surfaced to LoadAll's caller.
var errBadRecord = errors.New("store: bad record framing or checksum")

// Store owns a single append-only log file at <root>/chain.log.
type Store struct {
	path string
	file *os.File
}

// Open creates root if missing and opens (or creates) its chain.log
// for append writes.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", root, err)
	}
	path := filepath.Join(root, "chain.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{path: path, file: f}, nil
}

// Close releases the store's file descriptor.
func (s *Store) Close() error {
	return s.file.Close()
}

// Path returns the log file's path.
func (s *Store) Path() string {
	return s.path
}

// AppendBlock serializes b, frames it with the fixed record header and
// trailing checksum, writes it, and durably syncs before returning.
func (s *Store) AppendBlock(b block.Block) error {
	payload := b.Serialize()
	check := crypto.Sha256(payload)

	var header bytes.Buffer
	var tmp4 [4]byte
	var tmp8 [8]byte
	var tmp2 [2]byte

	binary.LittleEndian.PutUint32(tmp4[:], recordMagic)
	header.Write(tmp4[:])
	binary.LittleEndian.PutUint64(tmp8[:], recordVersion)
	header.Write(tmp8[:])
	binary.LittleEndian.PutUint16(tmp2[:], recordKind)
	header.Write(tmp2[:])
	binary.LittleEndian.PutUint64(tmp8[:], uint64(len(payload)))
	header.Write(tmp8[:])

	if _, err := s.file.Write(header.Bytes()); err != nil {
		return fmt.Errorf("store: write header: %w", err)
	}
	if _, err := s.file.Write(payload); err != nil {
		return fmt.Errorf("store: write payload: %w", err)
	}
	if _, err := s.file.Write(check[:]); err != nil {
		return fmt.Errorf("store: write check: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	return nil
}

// LoadAll scans the log from the beginning and decodes every
// well-formed record. Scanning stops cleanly at the first short read,
// framing mismatch, or checksum failure — a torn tail record is
// discarded silently rather than surfaced as an error.
func (s *Store) LoadAll() ([]block.Block, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s for read: %w", s.path, err)
	}
	defer f.Close()

	var blocks []block.Block
	for {
		b, err := readRecord(f)
		if err != nil {
			break
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func readRecord(f *os.File) (block.Block, error) {
	header := make([]byte, recordHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return block.Block{}, errBadRecord
	}

	magic := binary.LittleEndian.Uint32(header[0:4])
	version := binary.LittleEndian.Uint64(header[4:12])
	kind := binary.LittleEndian.Uint16(header[12:14])
	length := binary.LittleEndian.Uint64(header[14:22])

	if magic != recordMagic || version != recordVersion || kind != recordKind {
		return block.Block{}, errBadRecord
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(f, payload); err != nil {
		return block.Block{}, errBadRecord
	}

	check := make([]byte, checkSize)
	if _, err := io.ReadFull(f, check); err != nil {
		return block.Block{}, errBadRecord
	}
	want := crypto.Sha256(payload)
	if !bytes.Equal(check, want[:]) {
		return block.Block{}, errBadRecord
	}

	b, err := block.Decode(payload)
	if err != nil {
		return block.Block{}, errBadRecord
	}
	return b, nil
}

// Truncate clears the log in place, reopening it as an empty file.
// Used by operators to "clear and reopen" the store.
func (s *Store) Truncate() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("store: close before truncate: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("store: truncate %s: %w", s.path, err)
	}
	s.file = f
	return nil
}
