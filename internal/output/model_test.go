package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mork-export/internal/morkdb"
	"mork-export/internal/morkparse"
)

const sampleInput = `
[ 5:cards (mail=j@x)(name=John) ]
[ 6:cards (name=Jane) ]
[ 9:history (URL=http://x) ]
{ 1:cards 5 6 }`

func sampleDB(t *testing.T) *morkdb.Database {
	t.Helper()
	tree, err := morkparse.Parse(sampleInput)
	require.NoError(t, err)
	db, err := morkdb.Build(tree)
	require.NoError(t, err)
	return db
}

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument(sampleDB(t), "abook.mab")

	assert.Equal(t, "abook.mab", doc.Source)
	require.Len(t, doc.Tables, 1)

	tbl := doc.Tables[0]
	assert.Equal(t, "cards", tbl.Namespace)
	assert.Equal(t, "1", tbl.ID)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "5", tbl.Rows[0].ID)
	assert.Equal(t, "6", tbl.Rows[1].ID)

	// Cells come out sorted by column.
	require.Len(t, tbl.Rows[0].Cells, 2)
	assert.Equal(t, "mail", tbl.Rows[0].Cells[0].Column)
	assert.Equal(t, "name", tbl.Rows[0].Cells[1].Column)

	// The history row belongs to no table and surfaces as an orphan.
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "history", doc.Rows[0].Namespace)
	assert.Equal(t, "9", doc.Rows[0].ID)
}

func TestBuildDocument_Empty(t *testing.T) {
	doc := BuildDocument(morkdb.NewDatabase(), "")
	assert.Empty(t, doc.Tables)
	assert.Empty(t, doc.Rows)
}
