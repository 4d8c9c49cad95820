package resource

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Reader is a position tracked little endian reader over in-memory resource.
// Every read past the end of data results in structural error.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns current offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns size of underlying data.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Seek moves to absolute offset.
func (r *Reader) Seek(offset int) error {
	if offset < 0 || offset > len(r.data) {
		return Structural(r.pos, "seek to 0x%X outside of %d bytes", offset, len(r.data))
	}
	r.pos = offset
	return nil
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Remaining() < n {
		return Structural(r.pos, "need %d bytes, have %d: %w", n, r.Remaining(), io.ErrUnexpectedEOF)
	}
	return nil
}

// PeekU8 returns next byte without advancing.
func (r *Reader) PeekU8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.data[r.pos], nil
}

// PeekU32 returns next 4 bytes as number without advancing.
func (r *Reader) PeekU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.data[r.pos:]), nil
}

func (r *Reader) U8() (byte, error) {
	v, err := r.PeekU8()
	if err == nil {
		r.pos++
	}
	return v, err
}

func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) U32() (uint32, error) {
	v, err := r.PeekU32()
	if err == nil {
		r.pos += 4
	}
	return v, err
}

// Bytes returns next n bytes, returned slice is a copy.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := bytes.Clone(r.data[r.pos : r.pos+n])
	r.pos += n
	return out, nil
}

// Block reads u32 length prefixed byte sequence.
func (r *Reader) Block() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(n))
}

// U32s reads u32 count prefixed list of u32 values.
func (r *Reader) U32s() ([]uint32, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n) * 4); err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(r.data[r.pos:])
		r.pos += 4
	}
	return out, nil
}

// Writer accumulates little endian encoded resource in memory.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Len() int { return w.buf.Len() }

// Bytes returns accumulated data, valid until next write.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) U8(v byte) { w.buf.WriteByte(v) }

func (w *Writer) U16(v uint16) { w.buf.Write(binary.LittleEndian.AppendUint16(nil, v)) }

func (w *Writer) U32(v uint32) { w.buf.Write(binary.LittleEndian.AppendUint32(nil, v)) }

func (w *Writer) U64(v uint64) { w.buf.Write(binary.LittleEndian.AppendUint64(nil, v)) }

func (w *Writer) Raw(p []byte) { w.buf.Write(p) }

// Block writes u32 length prefixed byte sequence.
func (w *Writer) Block(p []byte) {
	w.U32(uint32(len(p)))
	w.buf.Write(p)
}

// U32s writes u32 count prefixed list of u32 values.
func (w *Writer) U32s(v []uint32) {
	w.U32(uint32(len(v)))
	for _, n := range v {
		w.U32(n)
	}
}

// PutU32At overwrites already written value at offset.
func (w *Writer) PutU32At(offset int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf.Bytes()[offset:], v)
}
