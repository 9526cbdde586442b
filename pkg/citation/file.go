package citation

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/citation/pkg/errors"
)

// Document is the on-disk form of a card: a [card] table holding the
// Config and an optional [assets] table naming the font and logo.
//
//	[card]
//	title = "M.O.A. CITATION"
//	reason = """
//	Protocol Violated.
//	Entry Permit: Invalid Name"""
//	barcode = [1, 0, 1, 1]
//
//	[assets]
//	font = "fonts/BMmini.ttf"
type Document struct {
	Card   Config `toml:"card"`
	Assets Assets `toml:"assets"`
}

// Assets locates the font and logo. Either may be a local path or an
// http(s) URL; empty means the built-in default.
type Assets struct {
	Font string `toml:"font,omitempty"`
	Logo string `toml:"logo,omitempty"`
	// KeepLogoColor skips tinting the logo with the foreground color.
	KeepLogoColor bool `toml:"keep_logo_color,omitempty"`
}

// Decode reads a Document from r. Keys missing from the [card] table keep
// their Default values.
func Decode(r io.Reader) (Document, error) {
	doc := Document{Card: Default()}
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse card file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Document{}, errors.New(errors.ErrCodeInvalidInput, "unknown key %q in card file", undecoded[0].String())
	}
	return doc, nil
}

// LoadFile reads a Document from path.
func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Document{}, errors.Wrap(errors.ErrCodeAssetNotFound, err, "card file %s", path)
	}
	if err != nil {
		return Document{}, fmt.Errorf("open card file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes doc as TOML.
func Encode(w io.Writer, doc Document) error {
	return toml.NewEncoder(w).Encode(doc)
}

// WriteFile stores doc at path, replacing any existing file.
func WriteFile(path string, doc Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return fmt.Errorf("encode card file: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
