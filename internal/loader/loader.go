// Package loader resolves formdef sources into raw documents.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-formfate/pkg/formdef"
)

var (
	// ErrHTTPDisabled is returned for URL sources when no client is configured.
	ErrHTTPDisabled = errors.New("formdef loader: http support disabled")
	// ErrTooLarge is returned when a payload exceeds the configured byte cap.
	ErrTooLarge = errors.New("payload exceeds the byte limit")
)

// Loader reads definitions from the local disk, an fs.FS or over HTTP.
type Loader struct {
	files    fs.FS
	client   *http.Client
	maxBytes int64
}

var _ formdef.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options formdef.LoaderOptions) *Loader {
	return &Loader{
		files:    options.FileSystem,
		client:   httpClient(options),
		maxBytes: options.MaxBytes,
	}
}

// httpClient returns nil when remote sources are not allowed. A caller
// supplied client is copied so the request timeout never leaks back.
func httpClient(options formdef.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		client := *options.HTTPClient
		if client.Timeout == 0 {
			client.Timeout = options.RequestTimeout
		}
		return &client
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	default:
		return nil
	}
}

// Load fetches a definition from the provided source.
func (l *Loader) Load(ctx context.Context, src formdef.Source) (formdef.RawDocument, error) {
	if src == nil {
		return formdef.RawDocument{}, errors.New("formdef loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return formdef.RawDocument{}, err
	}

	body, err := l.open(ctx, src)
	if err != nil {
		return formdef.RawDocument{}, err
	}
	defer func() {
		_ = body.Close()
	}()

	data, err := readCapped(body, l.maxBytes)
	if err != nil {
		return formdef.RawDocument{}, fmt.Errorf("formdef loader: %s: %w", src.Location(), err)
	}
	return formdef.NewRawDocument(src, data)
}

func (l *Loader) open(ctx context.Context, src formdef.Source) (io.ReadCloser, error) {
	switch src.Kind() {
	case formdef.SourceKindFile:
		return openFile(src.Location())
	case formdef.SourceKindFS:
		return openFS(l.files, src.Location())
	case formdef.SourceKindURL:
		if l.client == nil {
			return nil, ErrHTTPDisabled
		}
		return openURL(ctx, l.client, src.Location())
	default:
		return nil, fmt.Errorf("formdef loader: unsupported source kind %q", src.Kind())
	}
}

// readCapped reads r to the end. With a positive limit it reads one byte past
// the cap so an oversized payload is detected without buffering all of it.
func readCapped(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w of %d", ErrTooLarge, limit)
	}
	return data, nil
}
