package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"mork-export/internal/morkdb"
)

type xmlWriter struct{}

func (*xmlWriter) Name() string { return "xml" }
func (*xmlWriter) Ext() string  { return "xml" }

// xmlDocument wraps Document with the root element name.
type xmlDocument struct {
	XMLName xml.Name `xml:"morkdb"`
	*Document
}

func (*xmlWriter) Write(db *morkdb.Database, dest string) error {
	w, closer, err := openDest(dest)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer()
	}()

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(xmlDocument{Document: BuildDocument(db, "")}); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	return err
}
