// Package fonts resolves logical font roles to concrete typefaces.
//
// A Library maps the regular/light/bold roles to TTF files on disk. Paths
// usually come from the TOML config; when a path is empty or missing the
// library falls back to searching the system font directories for a list
// of well-known candidates. Parsed fonts and derived faces are cached, so
// renderers can request faces freely.
package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/statuscard/pkg/errors"
	"github.com/matzehuels/statuscard/pkg/text"
)

// Config holds the font file paths for each role. Empty entries fall back
// to a system font search.
type Config struct {
	Regular string `toml:"regular"`
	Light   string `toml:"light"`
	Bold    string `toml:"bold"`
}

// fallbacks are tried with findfont when no path is configured. MiSans is
// what the upstream card layouts were designed against; the DejaVu entries
// keep renders working on bare Linux hosts.
var fallbacks = map[text.Role][]string{
	text.Regular: {"MiSans-Regular.ttf", "NotoSansSC-Regular.ttf", "DejaVuSans.ttf"},
	text.Light:   {"MiSans-Light.ttf", "NotoSansSC-Light.ttf", "DejaVuSans.ttf"},
	text.Bold:    {"MiSans-Bold.ttf", "NotoSansSC-Bold.ttf", "DejaVuSans-Bold.ttf"},
}

type faceKey struct {
	role text.Role
	size float64
}

// Library is a caching text.Source backed by TTF files.
// It is safe for concurrent use.
type Library struct {
	cfg Config

	mu    sync.Mutex
	fonts map[text.Role]*truetype.Font
	faces map[faceKey]font.Face
}

// New creates a Library for the given config. No files are touched until
// the first Face call, so a misconfigured role only fails renders that
// actually use it.
func New(cfg Config) *Library {
	return &Library{
		cfg:   cfg,
		fonts: make(map[text.Role]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns a face for the role at the given pixel size.
// Returns a MISSING_RESOURCE error when no font file can be resolved.
func (l *Library) Face(role text.Role, size float64) (font.Face, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := faceKey{role: role, size: size}
	if f, ok := l.faces[key]; ok {
		return f, nil
	}

	ttf, err := l.font(role)
	if err != nil {
		return nil, err
	}

	// DPI 72 makes the point size equal the pixel size, which is the unit
	// all card layout constants are expressed in.
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72})
	l.faces[key] = face
	return face, nil
}

func (l *Library) font(role text.Role) (*truetype.Font, error) {
	if f, ok := l.fonts[role]; ok {
		return f, nil
	}

	path, err := l.resolve(role)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingResource, err, "read font %q for role %s", path, role)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingResource, err, "parse font %q for role %s", path, role)
	}

	l.fonts[role] = ttf
	return ttf, nil
}

func (l *Library) resolve(role text.Role) (string, error) {
	configured := l.configuredPath(role)
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}
	for _, name := range fallbacks[role] {
		if path, err := findfont.Find(name); err == nil {
			return path, nil
		}
	}
	if configured != "" {
		return "", errors.New(errors.ErrCodeMissingResource, "font %q for role %s not found and no system fallback available", configured, role)
	}
	return "", errors.New(errors.ErrCodeMissingResource, "no font configured for role %s and no system fallback available", role)
}

func (l *Library) configuredPath(role text.Role) string {
	switch role {
	case text.Regular:
		return l.cfg.Regular
	case text.Light:
		return l.cfg.Light
	case text.Bold:
		return l.cfg.Bold
	default:
		return ""
	}
}

var _ text.Source = (*Library)(nil)
