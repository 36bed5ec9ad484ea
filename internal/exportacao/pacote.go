package exportacao

import (
	"archive/zip"
	"fmt"
	"io"
)

// Bundle exports req in each format and writes all payloads into a single zip
// archive. With no formats, every format is included.
func Bundle(w io.Writer, req Request, formats ...Format) error {
	if len(formats) == 0 {
		formats = Formats()
	}
	payloads := make([]Payload, 0, len(formats))
	for _, f := range formats {
		p, err := Export(f, req)
		if err != nil {
			return fmt.Errorf("error exporting %s: %w", f, err)
		}
		payloads = append(payloads, p)
	}
	return Zip(w, payloads...)
}

// Zip writes payloads into a zip archive, one entry per payload, named by its
// file name.
func Zip(w io.Writer, payloads ...Payload) error {
	zipWriter := zip.NewWriter(w)
	for _, p := range payloads {
		// Deflate is the compression method.
		header := &zip.FileHeader{Name: p.Filename, Method: zip.Deflate}
		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("error adding %s to zip: %w", p.Filename, err)
		}
		if _, err := writer.Write(p.Content); err != nil {
			return fmt.Errorf("error writing %s to zip: %w", p.Filename, err)
		}
	}
	return zipWriter.Close()
}
