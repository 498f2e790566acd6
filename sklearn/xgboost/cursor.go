package xgboost

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// Cursor reads little-endian values sequentially from an immutable buffer.
// Every read is bounds-checked and fails with a *errors.FormatError rather
// than returning a short value; the position only moves forward.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a Cursor positioned at the start of buf.
// buf is never modified.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) take(op string, n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, errors.NewFormatError(op, c.pos, n, c.Remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances past n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.take("skip", n)
	return err
}

// ReadInt32 reads a signed 32-bit integer.
func (c *Cursor) ReadInt32() (int32, error) {
	b, err := c.take("read int32", 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take("read uint32", 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.take("read uint64", 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadFloat32 reads an IEEE-754 single precision value.
func (c *Cursor) ReadFloat32() (float32, error) {
	b, err := c.take("read float32", 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadInt32s reads count contiguous int32 values.
func (c *Cursor) ReadInt32s(count int) ([]int32, error) {
	if count < 0 || count > c.Remaining()/4 {
		return nil, errors.NewFormatError("read int32 array", c.pos, count*4, c.Remaining())
	}
	b, _ := c.take("read int32 array", count*4)
	out := make([]int32, count)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// ReadFloat32s reads count contiguous float32 values.
func (c *Cursor) ReadFloat32s(count int) ([]float32, error) {
	if count < 0 || count > c.Remaining()/4 {
		return nil, errors.NewFormatError("read float32 array", c.pos, count*4, c.Remaining())
	}
	b, _ := c.take("read float32 array", count*4)
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// ReadString decodes the next byteLength bytes as UTF-8 text.
func (c *Cursor) ReadString(byteLength uint64) (string, error) {
	start := c.pos
	if byteLength > uint64(c.Remaining()) {
		return "", errors.NewFormatErrorf("read string", start,
			"length %d exceeds %d remaining bytes", byteLength, c.Remaining())
	}
	b, err := c.take("read string", int(byteLength))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.NewFormatErrorf("read string", start, "invalid UTF-8")
	}
	return string(b), nil
}

// ReadLenString reads a uint64 byte length followed by that many UTF-8 bytes.
func (c *Cursor) ReadLenString() (string, error) {
	n, err := c.ReadUint64()
	if err != nil {
		return "", err
	}
	return c.ReadString(n)
}

// fieldReader wraps a Cursor and keeps the first error, so fixed-layout
// records can be decoded as a flat list of reads followed by one check.
type fieldReader struct {
	c     *Cursor
	err   error
	field string
}

func (r *fieldReader) fail(field string, err error) {
	if r.err == nil {
		r.err = err
		r.field = field
	}
}

func (r *fieldReader) i32(field string) int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadInt32()
	r.fail(field, err)
	return v
}

func (r *fieldReader) u32(field string) uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadUint32()
	r.fail(field, err)
	return v
}

func (r *fieldReader) u64(field string) uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadUint64()
	r.fail(field, err)
	return v
}

func (r *fieldReader) f32(field string) float32 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.ReadFloat32()
	r.fail(field, err)
	return v
}

func (r *fieldReader) str(field string) string {
	if r.err != nil {
		return ""
	}
	v, err := r.c.ReadLenString()
	r.fail(field, err)
	return v
}

// reserved skips count int32 words.
func (r *fieldReader) reserved(field string, count int) {
	if r.err != nil {
		return
	}
	r.fail(field, r.c.Skip(count*4))
}

// Err returns the first failure wrapped with the name of the field being read.
func (r *fieldReader) Err() error {
	if r.err == nil {
		return nil
	}
	return errors.Wrap(r.err, r.field)
}
