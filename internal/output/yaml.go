package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mork-export/internal/morkdb"
)

type yamlWriter struct{}

func (*yamlWriter) Name() string { return "yaml" }
func (*yamlWriter) Ext() string  { return "yaml" }

func (*yamlWriter) Write(db *morkdb.Database, dest string) error {
	w, closer, err := openDest(dest)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer()
	}()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildDocument(db, "")); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
