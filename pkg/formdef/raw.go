package formdef

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// RawDocument wraps an unvalidated definition payload and its origin.
type RawDocument struct {
	source Source
	raw    []byte
}

// NewRawDocument constructs a RawDocument while validating the inputs.
func NewRawDocument(src Source, raw []byte) (RawDocument, error) {
	if src == nil {
		return RawDocument{}, errors.New("formdef: source is required")
	}
	if len(raw) == 0 {
		return RawDocument{}, ErrEmptyDocument
	}

	clone := append([]byte(nil), raw...)
	return RawDocument{source: src, raw: clone}, nil
}

// MustNewRawDocument panics if the document cannot be created. Useful for tests.
func MustNewRawDocument(src Source, raw []byte) RawDocument {
	doc, err := NewRawDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Inline wraps an in-memory payload.
func Inline(raw []byte) RawDocument {
	return RawDocument{source: SourceInline(""), raw: append([]byte(nil), raw...)}
}

// Source returns the origin metadata for the document.
func (d RawDocument) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d RawDocument) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d RawDocument) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Fingerprint returns the hex sha256 of the payload. Identical payloads share
// a fingerprint regardless of source, which makes it a cache key for hosts
// that memoise validation.
func (d RawDocument) Fingerprint() string {
	if len(d.raw) == 0 {
		return ""
	}
	sum := sha256.Sum256(d.raw)
	return hex.EncodeToString(sum[:])
}
