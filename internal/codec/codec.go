// Package codec implements the little-endian byte codec used wherever
// astro hashes or persists data. It is the one place that pins down
// endianness so that hashing preimages stay byte-exact across platforms.
package codec

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated is returned when a length-prefixed read declares more
// bytes than remain in the buffer.
var ErrTruncated = errors.New("codec: truncated buffer")

// Writer accumulates bytes for hashing or persistence.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteU8 appends a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU32 appends a 32-bit little-endian integer.
func (w *Writer) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteU64 appends a 64-bit little-endian integer.
func (w *Writer) WriteU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteRaw appends bytes with no length prefix.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBytes appends a u32 little-endian length followed by the bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString appends a u32 little-endian length followed by the UTF-8
// bytes of s.
func (w *Writer) WriteString(s string) {
	w.WriteBytes([]byte(s))
}

// Bytes returns the accumulated buffer without copying.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader decodes a byte slice written by Writer.
type Reader struct {
	src []byte
	pos int
}

// NewReader wraps src for sequential decoding.
func NewReader(src []byte) *Reader {
	return &Reader{src: src}
}

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int {
	return len(r.src) - r.pos
}

func (r *Reader) ensure(n int) error {
	if n > r.Remaining() {
		return ErrTruncated
	}
	return nil
}

// ReadU8 decodes a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.ensure(1); err != nil {
		return 0, err
	}
	v := r.src[r.pos]
	r.pos++
	return v, nil
}

// ReadU32 decodes a 32-bit little-endian integer.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.ensure(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.src[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// ReadU64 decodes a 64-bit little-endian integer.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.ensure(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.src[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// ReadRaw reads exactly n unprefixed bytes.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if err := r.ensure(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.src[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadBytes reads a u32 length prefix followed by that many bytes.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return r.ReadRaw(int(n))
}

// ReadString reads a u32 length prefix followed by that many UTF-8 bytes.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
