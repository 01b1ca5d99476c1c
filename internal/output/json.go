package output

import (
	"encoding/json"
	"fmt"

	"mork-export/internal/morkdb"
)

type jsonWriter struct{}

func (*jsonWriter) Name() string { return "json" }
func (*jsonWriter) Ext() string  { return "json" }

func (*jsonWriter) Write(db *morkdb.Database, dest string) error {
	w, closer, err := openDest(dest)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer()
	}()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildDocument(db, "")); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
