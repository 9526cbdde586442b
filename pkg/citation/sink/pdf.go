package sink

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-pdf/fpdf"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title   string
	creator string
	pngOpts []PNGOption
}

// WithPDFTitle sets the document title metadata.
func WithPDFTitle(title string) PDFOption {
	return func(r *pdfRenderer) { r.title = title }
}

// WithPDFCreator sets the document creator metadata.
func WithPDFCreator(creator string) PDFOption {
	return func(r *pdfRenderer) { r.creator = creator }
}

// WithPDFPNGOptions passes options through to the PNG encoder used for the
// embedded image.
func WithPDFPNGOptions(opts ...PNGOption) PDFOption {
	return func(r *pdfRenderer) { r.pngOpts = opts }
}

// RenderPDF places img on a single page of the same size, one point per
// pixel.
func RenderPDF(img image.Image, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	raster, err := RenderPNG(img, r.pngOpts...)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if r.title != "" {
		pdf.SetTitle(r.title, true)
	}
	if r.creator != "" {
		pdf.SetCreator(r.creator, true)
	}
	pdf.AddPage()

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("card", imgOpts, bytes.NewReader(raster))
	pdf.ImageOptions("card", 0, 0, w, h, false, imgOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}
