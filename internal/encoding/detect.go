// Package encoding normalizes the character encoding of uploaded bank
// exports. Banks ship CSVs as UTF-8 with or without a BOM, UTF-16, or a
// legacy Windows code page; everything downstream expects UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

// NewUTF8Reader wraps r with whatever decoding is needed to yield UTF-8.
//
// Detection order: BOM, then a UTF-8 validity check on the first chunk, then
// chardet's charset heuristic, then Windows-1252 as the final fallback (it
// decodes any byte sequence, so malformed input degrades instead of failing).
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) {
		// Strip the UTF-8 BOM; the rest passes through.
		_, _ = br.Discard(3)
		return br, nil
	}

	if bytes.HasPrefix(head, []byte{0xFF, 0xFE}) {
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if bytes.HasPrefix(head, []byte{0xFE, 0xFF}) {
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if decoder := detectCharset(head); decoder != nil {
		return transform.NewReader(br, decoder), nil
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

func detectCharset(head []byte) transform.Transformer {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return nil
	}

	switch result.Charset {
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252.NewDecoder()
	case "ISO-8859-15":
		return charmap.ISO8859_15.NewDecoder()
	case "ISO-8859-9":
		return charmap.ISO8859_9.NewDecoder()
	}

	return nil
}
