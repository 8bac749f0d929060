// Package encoding normalises bank exports to UTF-8. Portuguese banks still
// ship Windows-1252 files, and some tools add byte order marks.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sampleSize = 4096

type bom struct {
	mark    []byte
	strip   bool
	decoder func() *encoding.Decoder
}

var boms = []bom{
	{mark: []byte{0xEF, 0xBB, 0xBF}, strip: true},
	{mark: []byte{0xFF, 0xFE}, decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder},
	{mark: []byte{0xFE, 0xFF}, decoder: unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder},
}

// charsets maps chardet names to decoders. UTF-8 needs none.
var charsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// NewUTF8Reader sniffs the first bytes of r and returns a reader producing
// UTF-8. Byte order marks win, then valid UTF-8 passes through, then chardet
// guesses; anything unrecognised is read as Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sampleSize)

	sample, err := br.Peek(sampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peeking input: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(sample, b.mark) {
			continue
		}

		if b.strip {
			if _, err := br.Discard(len(b.mark)); err != nil {
				return nil, fmt.Errorf("skipping byte order mark: %w", err)
			}

			return br, nil
		}

		return transform.NewReader(br, b.decoder()), nil
	}

	if validUTF8Prefix(sample) {
		return br, nil
	}

	return transform.NewReader(br, detect(sample).NewDecoder()), nil
}

func detect(sample []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		if e, ok := charsets[result.Charset]; ok {
			return e
		}

		if result.Charset == "UTF-8" {
			return encoding.Nop
		}
	}

	return charmap.Windows1252
}

// validUTF8Prefix tolerates a multi-byte rune cut off by the sample boundary.
func validUTF8Prefix(sample []byte) bool {
	for i := 0; i < utf8.UTFMax && len(sample) > 0; i++ {
		if utf8.Valid(sample) {
			return true
		}

		if len(sample) < sampleSize {
			return false
		}

		sample = sample[:len(sample)-1]
	}

	return utf8.Valid(sample)
}
