package reader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	apperr "log-analyzer/internal/errors"
)

// DecodeMode controls what happens to bytes that are not valid in the
// configured encoding.
type DecodeMode string

const (
	// DecodeIgnore drops invalid bytes.
	DecodeIgnore DecodeMode = "ignore"
	// DecodeReplace substitutes U+FFFD for invalid sequences.
	DecodeReplace DecodeMode = "replace"
	// DecodeStrict fails the read with a decode error.
	DecodeStrict DecodeMode = "strict"
)

// ParseDecodeMode validates s. Empty means DecodeIgnore.
func ParseDecodeMode(s string) (DecodeMode, error) {
	switch m := DecodeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return DecodeIgnore, nil
	case DecodeIgnore, DecodeReplace, DecodeStrict:
		return m, nil
	default:
		return "", fmt.Errorf("unknown decode mode %q: must be ignore, replace, or strict", s)
	}
}

// decoder turns raw file bytes into text.
type decoder struct {
	enc  encoding.Encoding
	name string
	mode DecodeMode
}

func newDecoder(label string, mode DecodeMode) (*decoder, error) {
	if label == "" {
		label = "utf-8"
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	return &decoder{enc: enc, name: name, mode: mode}, nil
}

func (d *decoder) isUTF8() bool { return d.name == "utf-8" }

func (d *decoder) decode(path string, data []byte) (string, error) {
	if d.isUTF8() {
		switch d.mode {
		case DecodeStrict:
			if !utf8.Valid(data) {
				return "", apperr.Errorf(apperr.KindDecode, "read", path, "invalid utf-8 at byte %d", firstInvalid(data))
			}
			return string(data), nil
		case DecodeReplace:
			out, err := d.enc.NewDecoder().Bytes(data)
			if err != nil {
				return "", apperr.E(apperr.KindDecode, "read", path, err)
			}
			return string(out), nil
		default:
			return strings.ToValidUTF8(string(data), ""), nil
		}
	}

	out, err := d.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", apperr.E(apperr.KindDecode, "read", path, err)
	}
	text := string(out)
	if d.mode == DecodeReplace || !strings.ContainsRune(text, utf8.RuneError) {
		return text, nil
	}

	// Non-UTF-8 decoders report invalid input as U+FFFD, but the source may
	// also carry genuine U+FFFD characters that must survive.
	clean, dropped, err := d.dropInvalid(data)
	if err != nil {
		return "", apperr.E(apperr.KindDecode, "read", path, err)
	}
	if dropped > 0 && d.mode == DecodeStrict {
		return "", apperr.Errorf(apperr.KindDecode, "read", path, "invalid %s input", d.name)
	}
	return clean, nil
}

var replacementChar = []byte(string(utf8.RuneError))

// dropInvalid decodes data and removes the U+FFFD runes the decoder emitted
// for invalid input, returning how many were removed.
func (d *decoder) dropInvalid(data []byte) (string, int, error) {
	encoded, err := d.enc.NewEncoder().Bytes(replacementChar)
	if err != nil || !bytes.Contains(data, encoded) {
		// U+FFFD cannot occur in this source, so every one is synthetic.
		out, err := d.enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", 0, err
		}
		text := string(out)
		return strings.ReplaceAll(text, string(utf8.RuneError), ""), strings.Count(text, string(utf8.RuneError)), nil
	}

	// Decode one rune per step so each U+FFFD can be traced to the source
	// bytes it came from.
	t := d.enc.NewDecoder()
	var out strings.Builder
	dropped := 0
	src := data
	dst := make([]byte, len(replacementChar))
	for len(src) > 0 {
		nDst, nSrc, err := t.Transform(dst, src, true)
		if nDst == 0 && nSrc == 0 && errors.Is(err, transform.ErrShortDst) {
			// Next rune is wider than U+FFFD, so it cannot be one.
			wide := make([]byte, utf8.UTFMax)
			nDst, nSrc, err = t.Transform(wide, src, true)
			out.Write(wide[:nDst])
			src = src[nSrc:]
			if nDst == 0 && nSrc == 0 {
				return "", 0, fmt.Errorf("decoder made no progress: %w", err)
			}
			continue
		}

		chunk := dst[:nDst]
		if bytes.Equal(chunk, replacementChar) && !bytes.HasSuffix(src[:nSrc], encoded) {
			dropped++
		} else {
			out.Write(chunk)
		}
		src = src[nSrc:]

		switch {
		case err == nil, errors.Is(err, transform.ErrShortDst):
		default:
			return "", 0, err
		}
	}
	return out.String(), dropped, nil
}

func firstInvalid(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
