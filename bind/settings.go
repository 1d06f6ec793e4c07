package bind

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ardnew/pxx/pkg"
)

// Settings controls how a module is rendered. It is read from a TOML file:
//
//	module   = "geometry"
//	header   = "// generated, do not edit"
//	includes = ["geometry/point.h"]
//	match    = ["geo::**"]
type Settings struct {
	// Module is the Python module name.
	Module string `toml:"module"`
	// Header replaces the generated banner.
	Header   string   `toml:"header"`
	Includes []string `toml:"includes"`
	// Match restricts the bound declarations; see [WithMatch].
	Match []string `toml:"match"`
}

// DecodeSettings reads settings from r. Unknown keys are an error.
func DecodeSettings(r io.Reader) (Settings, error) {
	s, err := decodeSettings(r)
	if err != nil {
		return Settings{}, ErrSettings.Wrap(err)
	}

	return s, nil
}

// LoadSettings reads the settings file at path.
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, pkg.ErrReadInput.Wrap(err)
	}
	defer f.Close()

	s, err := decodeSettings(f)
	if err != nil {
		return Settings{}, ErrSettings.Wrapf("%s: %w", path, err)
	}

	return s, nil
}

func decodeSettings(r io.Reader) (Settings, error) {
	var s Settings

	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Settings{}, err
	}

	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}

		return Settings{}, fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
	}

	return s, nil
}

// Encode writes s as TOML.
func (s Settings) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

// LogValue implements [slog.LogValuer].
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("module", s.Module),
		slog.Bool("header", s.Header != ""),
		slog.Any("includes", s.Includes),
		slog.Any("match", s.Match),
	)
}
