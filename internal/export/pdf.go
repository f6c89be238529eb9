package export

import (
	"bytes"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF writes a single page PDF sized to img (1px = 1pt) holding it as a
// PNG image.
func WritePDF(w io.Writer, img image.Image) error {
	pdf, err := buildPDF(img)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// SavePDF writes img as a PDF to path.
func SavePDF(path string, img image.Image) error {
	pdf, err := buildPDF(img)
	if err != nil {
		return err
	}
	return writeFile(path, pdf.Output)
}

func buildPDF(img image.Image) (*gofpdf.Fpdf, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	// "L" would swap Wd and Ht, so the page is always declared portrait.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("sketchboard", true)
	pdf.SetTitle("Sketch", true)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("sketch", opts, &buf)
	pdf.ImageOptions("sketch", 0, 0, w, h, false, opts, 0, "")
	return pdf, pdf.Error()
}
