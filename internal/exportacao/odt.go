package exportacao

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"hash/crc32"
	"strings"

	"exportador/internal/servidor"
)

const odtMimetype = "application/vnd.oasis.opendocument.text"

const odtManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:version="1.2" manifest:media-type="application/vnd.oasis.opendocument.text"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
 <manifest:file-entry manifest:full-path="styles.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

const odtStyles = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" office:version="1.2">
 <office:styles>
  <style:style style:name="Standard" style:family="paragraph">
   <style:text-properties style:font-name="Arial" fo:font-family="Arial" fo:font-size="11pt"/>
  </style:style>
  <style:style style:name="Title" style:family="paragraph" style:parent-style-name="Standard">
   <style:paragraph-properties fo:text-align="center" fo:margin-bottom="0.4cm"/>
   <style:text-properties fo:font-size="18pt" fo:font-weight="bold"/>
  </style:style>
  <style:style style:name="Heading_20_1" style:display-name="Heading 1" style:family="paragraph" style:parent-style-name="Standard" style:default-outline-level="1">
   <style:paragraph-properties fo:margin-top="0.4cm" fo:margin-bottom="0.2cm"/>
   <style:text-properties fo:font-size="14pt" fo:font-weight="bold"/>
  </style:style>
  <style:style style:name="Table_20_Label" style:display-name="Table Label" style:family="paragraph" style:parent-style-name="Standard">
   <style:text-properties fo:font-weight="bold"/>
  </style:style>
 </office:styles>
</office:document-styles>
`

const odtContentHead = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" office:version="1.2">
 <office:automatic-styles>
  <style:style style:name="Campos" style:family="table">
   <style:table-properties style:width="17cm" table:align="margins"/>
  </style:style>
  <style:style style:name="Campos.A" style:family="table-column">
   <style:table-column-properties style:column-width="6cm"/>
  </style:style>
  <style:style style:name="Campos.B" style:family="table-column">
   <style:table-column-properties style:column-width="11cm"/>
  </style:style>
  <style:style style:name="Campos.Label" style:family="table-cell">
   <style:table-cell-properties fo:background-color="#e0e7ff" fo:padding="0.1cm" fo:border="0.5pt solid #000000"/>
  </style:style>
  <style:style style:name="Campos.Valor" style:family="table-cell">
   <style:table-cell-properties fo:padding="0.1cm" fo:border="0.5pt solid #000000"/>
  </style:style>
 </office:automatic-styles>
 <office:body>
  <office:text>
`

const odtContentTail = `  </office:text>
 </office:body>
</office:document-content>
`

// ODT builds an OpenDocument text package. Each record becomes a two-column
// table of labels and values; bulk exports put a heading before each table.
func ODT(req Request) (Payload, error) {
	if err := req.validate(); err != nil {
		return Payload{}, err
	}
	var content bytes.Buffer
	content.WriteString(odtContentHead)
	fmt.Fprintf(&content, "   <text:p text:style-name=\"Title\">%s</text:p>\n", escapeXML(req.Title()))
	for i, s := range req.Servidores {
		if !req.Detail {
			fmt.Fprintf(&content, "   <text:h text:style-name=\"Heading_20_1\" text:outline-level=\"1\">%s</text:h>\n", escapeXML(recordHeading(s)))
		}
		writeODTTable(&content, fmt.Sprintf("Servidor%d", i+1), req.Schema, s)
	}
	content.WriteString(odtContentTail)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	// O mimetype precisa ser a primeira entrada, sem compressão.
	mt := []byte(odtMimetype)
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               "mimetype",
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(mt),
		CompressedSize64:   uint64(len(mt)),
		UncompressedSize64: uint64(len(mt)),
	})
	if err != nil {
		return Payload{}, fmt.Errorf("error creating odt mimetype: %w", err)
	}
	if _, err := w.Write(mt); err != nil {
		return Payload{}, fmt.Errorf("error writing odt mimetype: %w", err)
	}
	for _, part := range []struct {
		name string
		data []byte
	}{
		{"META-INF/manifest.xml", []byte(odtManifest)},
		{"styles.xml", []byte(odtStyles)},
		{"content.xml", content.Bytes()},
	} {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate})
		if err != nil {
			return Payload{}, fmt.Errorf("error creating odt part (%s): %w", part.name, err)
		}
		if _, err := w.Write(part.data); err != nil {
			return Payload{}, fmt.Errorf("error writing odt part (%s): %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return Payload{}, fmt.Errorf("error closing odt package: %w", err)
	}
	return req.payload(FormatODT, odtMimetype, buf.Bytes()), nil
}

func writeODTTable(b *bytes.Buffer, name string, sc servidor.Schema, s servidor.Servidor) {
	fmt.Fprintf(b, "   <table:table table:name=\"%s\" table:style-name=\"Campos\">\n", name)
	b.WriteString("    <table:table-column table:style-name=\"Campos.A\"/>\n")
	b.WriteString("    <table:table-column table:style-name=\"Campos.B\"/>\n")
	for _, f := range sc {
		b.WriteString("    <table:table-row>\n")
		fmt.Fprintf(b, "     <table:table-cell table:style-name=\"Campos.Label\" office:value-type=\"string\"><text:p text:style-name=\"Table_20_Label\">%s</text:p></table:table-cell>\n", escapeXML(f.Label))
		fmt.Fprintf(b, "     <table:table-cell table:style-name=\"Campos.Valor\" office:value-type=\"string\"><text:p>%s</text:p></table:table-cell>\n", escapeXML(f.Value(s)))
		b.WriteString("    </table:table-row>\n")
	}
	b.WriteString("   </table:table>\n")
}

func escapeXML(s string) string {
	var b strings.Builder
	// EscapeText só falha quando o Writer falha.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
