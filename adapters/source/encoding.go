package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ResolveEncoding looks up an IANA charset name. Empty means UTF-8.
func ResolveEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// EncodeText converts UTF-8 text into the named charset. Empty means UTF-8.
// Characters the charset cannot represent are replaced.
func EncodeText(text []byte, name string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return text, nil
	}
	enc, err := ResolveEncoding(name)
	if err != nil {
		return nil, err
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode as %s: %w", name, err)
	}
	return out, nil
}

// decodingReader wraps r so that it yields UTF-8
func decodingReader(r io.Reader, name string) (io.Reader, error) {
	if strings.TrimSpace(name) == "" {
		return r, nil
	}
	enc, err := ResolveEncoding(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
