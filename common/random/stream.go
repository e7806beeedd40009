package random

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/nupic-community/seedrand/common/errors"
)

const (
	// StreamVersion is the opening tag of a serialized generator.
	StreamVersion = "random-v1"
	// StreamTerminator is the closing tag of a serialized generator.
	StreamTerminator = "endrandom-v1"

	// streamDelimiter is the control byte written after the closing tag.
	streamDelimiter = '\n'

	// No valid token (decimal uint64 or shortest float64) is this long.
	maxTokenLength = 64
)

// Serialize writes the complete generator state to w as a single line of
// space separated tokens:
//
//	random-v1 <seed> <engine-hi> <engine-lo> <u32-min> <u32-max>
//	<u64-min> <u64-max> <real-min> <real-max> endrandom-v1
//
// followed by a single newline.
func (g *Generator) Serialize(w io.Writer) error {
	b := g.appendText(make([]byte, 0, 256))
	b = append(b, streamDelimiter)
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("random: failed to write generator: %w", err)
	}
	return nil
}

// Deserialize replaces the generator state with the state read from r.
//
// Tokens are whitespace delimited. Exactly one byte following the closing
// tag is consumed, and r is never read past that byte. On failure the
// generator is left unchanged.
func (g *Generator) Deserialize(r io.Reader) error {
	st, err := readState(newByteSource(r))
	if err != nil {
		logger.Debug("failed to deserialize generator",
			"err", err,
		)
		return err
	}

	g.restore(st.seed, st.hi, st.lo, st.u32, st.u64, st.real)
	return nil
}

// Deserialize reads a serialized generator from r.
func Deserialize(r io.Reader, opts ...Option) (*Generator, error) {
	o := newOptions(opts)

	st, err := readState(newByteSource(r))
	if err != nil {
		return nil, err
	}

	g := &Generator{logger: o.logger}
	g.restore(st.seed, st.hi, st.lo, st.u32, st.u64, st.real)
	return g, nil
}

// String returns the serialized form of the generator, without the
// trailing delimiter.
func (g *Generator) String() string {
	return string(g.appendText(nil))
}

// MarshalText implements encoding.TextMarshaler.
func (g *Generator) MarshalText() ([]byte, error) {
	return g.appendText(nil), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Generator) UnmarshalText(text []byte) error {
	return g.Deserialize(bytes.NewReader(text))
}

func (g *Generator) appendText(b []byte) []byte {
	hi, lo := g.engineState()

	b = append(b, StreamVersion...)
	for _, v := range []uint64{
		g.seed,
		hi,
		lo,
		uint64(g.u32.Min),
		uint64(g.u32.Max),
		g.u64.Min,
		g.u64.Max,
	} {
		b = append(b, ' ')
		b = strconv.AppendUint(b, v, 10)
	}
	for _, v := range []float64{g.real.Min, g.real.Max} {
		b = append(b, ' ')
		b = strconv.AppendFloat(b, v, 'g', -1, 64)
	}
	b = append(b, ' ')
	b = append(b, StreamTerminator...)

	return b
}

type streamState struct {
	seed uint64
	hi   uint64
	lo   uint64
	u32  UniformUint32
	u64  UniformUint64
	real UniformFloat64
}

func readState(src *byteSource) (*streamState, error) {
	var st streamState

	tok, err := src.token()
	switch {
	case err == io.EOF:
		return nil, errors.WithContext(ErrVersionMismatch, "missing version tag")
	case err != nil:
		return nil, tokenError(ErrVersionMismatch, "version", tok, err)
	case tok != StreamVersion:
		return nil, errors.WithContextf(ErrVersionMismatch, "found '%s'", tok)
	}

	p := fieldParser{src: src}
	st.seed = p.parseUint("seed", 64)
	st.hi = p.parseUint("engine.hi", 64)
	st.lo = p.parseUint("engine.lo", 64)
	st.u32.Min = uint32(p.parseUint("uint32.min", 32))
	st.u32.Max = uint32(p.parseUint("uint32.max", 32))
	st.u64.Min = p.parseUint("uint64.min", 64)
	st.u64.Max = p.parseUint("uint64.max", 64)
	st.real.Min = p.parseFloat("real.min")
	st.real.Max = p.parseFloat("real.max")
	if p.err != nil {
		return nil, p.err
	}

	switch {
	case st.seed == 0:
		return nil, errors.WithContext(ErrMalformedToken, "seed: zero seed")
	case !st.u32.valid():
		return nil, errors.WithContextf(ErrMalformedToken, "uint32: invalid range [%d, %d]", st.u32.Min, st.u32.Max)
	case !st.u64.valid():
		return nil, errors.WithContextf(ErrMalformedToken, "uint64: invalid range [%d, %d]", st.u64.Min, st.u64.Max)
	case !st.real.valid():
		return nil, errors.WithContextf(ErrMalformedToken, "real: invalid range [%v, %v)", st.real.Min, st.real.Max)
	}

	tok, err = src.token()
	switch {
	case err == io.EOF:
		return nil, errors.WithContext(ErrTerminatorMismatch, "missing end tag")
	case err != nil:
		return nil, tokenError(ErrTerminatorMismatch, "end tag", tok, err)
	case tok != StreamTerminator:
		return nil, errors.WithContextf(ErrTerminatorMismatch, "found '%s'", tok)
	}

	// Discard the delimiter following the end tag, if any.
	if _, err = src.ReadByte(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("random: failed to read delimiter: %w", err)
	}

	return &st, nil
}

// fieldParser parses consecutive numeric fields, stopping at the first
// failure.
type fieldParser struct {
	src *byteSource
	err error
}

func (p *fieldParser) next(field string) (string, bool) {
	if p.err != nil {
		return "", false
	}

	tok, err := p.src.token()
	if err != nil {
		p.err = tokenError(ErrMalformedToken, field, tok, err)
		return "", false
	}
	return tok, true
}

func (p *fieldParser) parseUint(field string, bitSize int) uint64 {
	tok, ok := p.next(field)
	if !ok {
		return 0
	}

	v, err := strconv.ParseUint(tok, 10, bitSize)
	if err != nil {
		p.err = errors.WithContextf(ErrMalformedToken, "%s: '%s'", field, tok)
		return 0
	}
	return v
}

func (p *fieldParser) parseFloat(field string) float64 {
	tok, ok := p.next(field)
	if !ok {
		return 0
	}

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		p.err = errors.WithContextf(ErrMalformedToken, "%s: '%s'", field, tok)
		return 0
	}
	return v
}

var errTokenTooLong = fmt.Errorf("token exceeds %d bytes", maxTokenLength)

func tokenError(kind error, field, tok string, err error) error {
	switch err {
	case io.EOF:
		return errors.WithContextf(kind, "%s: unexpected end of stream", field)
	case errTokenTooLong:
		return errors.WithContextf(kind, "%s: %v (prefix '%s')", field, err, tok)
	default:
		return fmt.Errorf("random: failed to read %s: %w", field, err)
	}
}

// byteSource reads single bytes from an io.Reader without buffering
// ahead, supporting a single byte of push back.
type byteSource struct {
	r  io.Reader
	br io.ByteReader

	buf     [1]byte
	last    byte
	hasLast bool
}

func newByteSource(r io.Reader) *byteSource {
	src := &byteSource{r: r}
	if br, ok := r.(io.ByteReader); ok {
		src.br = br
	}
	return src
}

// ReadByte implements io.ByteReader.
func (s *byteSource) ReadByte() (byte, error) {
	if s.hasLast {
		s.hasLast = false
		return s.last, nil
	}

	if s.br != nil {
		return s.br.ReadByte()
	}
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

func (s *byteSource) unreadByte(b byte) {
	s.last = b
	s.hasLast = true
}

// token skips leading whitespace and returns the next whitespace
// delimited token. The delimiter is left unread. io.EOF is returned
// only if no token bytes were read.
func (s *byteSource) token() (string, error) {
	var tok []byte
	for {
		b, err := s.ReadByte()
		switch {
		case err == io.EOF && len(tok) > 0:
			return string(tok), nil
		case err != nil:
			return string(tok), err
		case isSpace(b):
			if len(tok) == 0 {
				continue
			}
			s.unreadByte(b)
			return string(tok), nil
		case len(tok) == maxTokenLength:
			return string(tok), errTokenTooLong
		}
		tok = append(tok, b)
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
