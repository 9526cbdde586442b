package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/citation/pkg/citation"
)

// cardFlags are the flags that describe a card. Values given on the command
// line override the card file passed with --config.
type cardFlags struct {
	config string

	width, height int
	fontSize      int

	title, reason, penalty string
	barcode                string

	background, foreground, text string

	resize      bool
	resizeLimit int

	font, logo    string
	keepLogoColor bool
}

func (f *cardFlags) register(cmd *cobra.Command) {
	def := citation.Default()
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "card file (TOML) to start from")
	fl.IntVar(&f.width, "width", def.Width, "card width in pixels (odd values are rounded up)")
	fl.IntVar(&f.height, "height", def.Height, "card height in pixels (odd values are rounded up)")
	fl.IntVar(&f.fontSize, "font-size", def.FontSize, "font size in pixels")
	fl.StringVar(&f.title, "title", def.Title, "title text")
	fl.StringVar(&f.reason, "reason", def.Reason, `reason text; "\n" starts a new line`)
	fl.StringVar(&f.penalty, "penalty", def.Penalty, "penalty text")
	fl.StringVar(&f.barcode, "barcode", citation.FormatBarcode(def.Barcode), "barcode bits, e.g. 10110")
	fl.StringVar(&f.background, "background", def.Background, "background color (#RRGGBB or #RRGGBBAA)")
	fl.StringVar(&f.foreground, "foreground", def.Foreground, "border and logo color")
	fl.StringVar(&f.text, "text", def.Text, "text, separator and barcode color")
	fl.BoolVar(&f.resize, "resize", false, "grow the card until all text fits")
	fl.IntVar(&f.resizeLimit, "resize-limit", 0, "maximum height when resizing (0 = unlimited)")
	fl.StringVar(&f.font, "font", "", "font file or URL (TTF, OTF, WOFF, WOFF2)")
	fl.StringVar(&f.logo, "logo", "", "logo image file or URL")
	fl.BoolVar(&f.keepLogoColor, "keep-logo-color", false, "draw the logo in its own colors")
}

// build returns the card described by the config file and the flags that
// were set explicitly.
func (f *cardFlags) build(cmd *cobra.Command) (citation.Config, citation.Assets, error) {
	doc := citation.Document{Card: citation.Default()}
	if f.config != "" {
		var err error
		if doc, err = citation.LoadFile(f.config); err != nil {
			return citation.Config{}, citation.Assets{}, err
		}
		doc.Assets = resolveAssets(doc.Assets, filepath.Dir(f.config))
	}

	cfg, a := doc.Card, doc.Assets
	changed := cmd.Flags().Changed

	ints := []struct {
		name string
		dst  *int
		val  int
	}{
		{"width", &cfg.Width, f.width},
		{"height", &cfg.Height, f.height},
		{"font-size", &cfg.FontSize, f.fontSize},
		{"resize-limit", &cfg.ResizeLimit, f.resizeLimit},
	}
	for _, v := range ints {
		if changed(v.name) {
			*v.dst = v.val
		}
	}

	strs := []struct {
		name string
		dst  *string
		val  string
	}{
		{"title", &cfg.Title, f.title},
		{"reason", &cfg.Reason, unescapeNewlines(f.reason)},
		{"penalty", &cfg.Penalty, f.penalty},
		{"background", &cfg.Background, f.background},
		{"foreground", &cfg.Foreground, f.foreground},
		{"text", &cfg.Text, f.text},
		{"font", &a.Font, f.font},
		{"logo", &a.Logo, f.logo},
	}
	for _, v := range strs {
		if changed(v.name) {
			*v.dst = v.val
		}
	}

	if changed("barcode") {
		bits, err := citation.ParseBarcode(f.barcode)
		if err != nil {
			return citation.Config{}, citation.Assets{}, err
		}
		cfg.Barcode = bits
	}
	if changed("resize") {
		cfg.ResizeReason = f.resize
	}
	if changed("keep-logo-color") {
		a.KeepLogoColor = f.keepLogoColor
	}
	return cfg, a, nil
}

// resolveAssets makes relative asset paths in a card file relative to the
// file's directory.
func resolveAssets(a citation.Assets, dir string) citation.Assets {
	for _, p := range []*string{&a.Font, &a.Logo} {
		if *p != "" && !filepath.IsAbs(*p) && !strings.Contains(*p, "://") {
			*p = filepath.Join(dir, *p)
		}
	}
	return a
}

func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
