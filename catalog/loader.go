package catalog

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogpu/swatch/pattern"
	"github.com/gogpu/swatch/raster"
)

var (
	// ErrUnsupportedScheme is returned for image references that are not
	// http(s), data or file references.
	ErrUnsupportedScheme = errors.New("catalog: unsupported URL scheme")

	// ErrFetch is returned when a remote image cannot be retrieved.
	ErrFetch = errors.New("catalog: fetch failed")
)

// DefaultMaxBytes bounds the size of a fetched image.
const DefaultMaxBytes = 32 << 20

// Loader fetches and decodes scene and swatch images.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// NewLoader returns a loader whose HTTP requests time out after timeout.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{
		client:   &http.Client{Timeout: timeout},
		maxBytes: DefaultMaxBytes,
	}
}

// Fetch retrieves ref and decodes it. ref may be an http(s) URL, a data
// URL, a file:// URL or a plain file path. Decode failures wrap
// raster.ErrDecode.
func (l *Loader) Fetch(ctx context.Context, ref string) (*raster.Pixmap, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		body, err := decodeDataURL(ref)
		if err != nil {
			return nil, err
		}
		return raster.Decode(bytes.NewReader(body))
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetchHTTP(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("catalog: parse %q: %w", ref, err)
		}
		return raster.DecodeFile(u.Path)
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, ref)
	default:
		return raster.DecodeFile(ref)
	}
}

// Material fetches a swatch image and parses its declared size. An
// unparseable size leaves Size nil.
func (l *Loader) Material(ctx context.Context, id, ref, size string) (pattern.Material, error) {
	img, err := l.Fetch(ctx, ref)
	if err != nil {
		return pattern.Material{}, fmt.Errorf("catalog: material %s: %w", id, err)
	}
	return pattern.Material{ID: id, Image: img, Size: ParseSize(size)}, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, ref string) (*raster.Pixmap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, ref, resp.Status)
	}
	return raster.Decode(io.LimitReader(resp.Body, l.maxBytes))
}

// decodeDataURL returns the payload of "data:[<mediatype>][;base64],<data>".
func decodeDataURL(ref string) ([]byte, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", raster.ErrDecode)
	}
	if strings.HasSuffix(meta, ";base64") {
		body, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("%w: data URL: %v", raster.ErrDecode, err)
		}
		return body, nil
	}
	body, err := url.PathUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("%w: data URL: %v", raster.ErrDecode, err)
	}
	return []byte(body), nil
}
