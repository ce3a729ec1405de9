// Package probe decides whether a file is safe to treat as text. The
// decision is MIME sniffing first, with a byte heuristic as fallback; an
// undecidable file is reported as not-text so callers skip it.
package probe

import (
	"bytes"
	"context"
	"io"
	"os"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ❌ ErrUnavailable is returned by Verify when the classifier cannot make
// decisions. Callers check for it before any file is touched.
var ErrUnavailable = errors.New("text classifier unavailable")

// readLimit caps how many bytes the sniffer reads per file.
const readLimit = 3072

// 🔍 Classifier reports whether a file looks like text.
type Classifier interface {
	IsText(ctx context.Context, path string) (bool, error)
}

// 🔧 MimeProbe classifies files by detected MIME type. A file is text when
// its type descends from text/plain; application/octet-stream falls back to
// a NUL-byte/UTF-8 heuristic on the sniffed sample.
type MimeProbe struct{}

// 🏭 New creates a new MimeProbe.
func New() *MimeProbe {
	mimetype.SetLimit(readLimit)
	return &MimeProbe{}
}

// ✅ Verify runs a self-check against a known text sample, so a broken
// classifier is caught up front rather than mid-run.
func (p *MimeProbe) Verify() error {
	m := mimetype.Detect([]byte("probe self-check\n"))
	if m == nil || !isTextType(m) {
		return ErrUnavailable
	}
	return nil
}

// 🔍 IsText implements Classifier.
func (p *MimeProbe) IsText(ctx context.Context, path string) (bool, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return false, errors.Errorf("sniffing %s: %w", path, err)
	}

	if isTextType(m) {
		return true, nil
	}

	if m.Is("application/octet-stream") {
		ok, err := looksLikeUTF8(path)
		if err != nil {
			return false, err
		}
		zerolog.Ctx(ctx).Debug().
			Str("path", path).
			Bool("utf8_fallback", ok).
			Msg("octet-stream fallback heuristic")
		return ok, nil
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("mime", m.String()).
		Msg("classified as binary")
	return false, nil
}

// isTextType walks the detected type's parent chain looking for text/plain.
func isTextType(m *mimetype.MIME) bool {
	for cur := m; cur != nil; cur = cur.Parent() {
		if cur.Is("text/plain") {
			return true
		}
	}
	return false
}

func readHead(path string, limit int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sample, err := io.ReadAll(io.LimitReader(f, int64(limit)))
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return sample, nil
}

// looksLikeUTF8 reads the head of the file and accepts it when the sample
// has no NUL bytes and decodes as UTF-8. The sample may end mid-rune, so a
// trailing incomplete sequence is tolerated.
func looksLikeUTF8(path string) (bool, error) {
	sample, err := readHead(path, readLimit)
	if err != nil {
		return false, err
	}
	if len(sample) == 0 {
		return true, nil
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return false, nil
	}

	// Trim up to 3 trailing bytes of a possibly truncated rune.
	for trim := 0; trim < 4 && len(sample) > 0; trim++ {
		if utf8.Valid(sample) {
			return true, nil
		}
		sample = sample[:len(sample)-1]
	}
	return false, nil
}
