package morkdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mork-export/internal/morkparse"
)

func mustBuild(t *testing.T, input string) *Database {
	t.Helper()
	tree, err := morkparse.Parse(input)
	require.NoError(t, err)
	db, err := Build(tree)
	require.NoError(t, err)
	return db
}

func buildErr(t *testing.T, input string) error {
	t.Helper()
	tree, err := morkparse.Parse(input)
	require.NoError(t, err)
	_, err = Build(tree)
	require.Error(t, err)
	return err
}

func cellValue(t *testing.T, db *Database, ns, id, column string) string {
	t.Helper()
	row, ok := db.Row(ns, id)
	require.True(t, ok, "row %s:%s", ns, id)
	v, ok := row.Value(column)
	require.True(t, ok, "column %q", column)
	return v
}

func TestBuild_SymbolicCells(t *testing.T) {
	db := mustBuild(t, `
< <(a=c)> (80=name) >
< (81=John Doe) >
[ 1:cards (^80^81) ]`)

	assert.Equal(t, "John Doe", cellValue(t, db, "cards", "1", "name"))
}

func TestBuild_ColumnAndValueDefaultNamespaces(t *testing.T) {
	// The same alias id means different things per side: column refs
	// resolve in "c", value refs in "a".
	db := mustBuild(t, `
< <(a=c)> (80=name) >
< (80=Jane) >
[ 1:cards (^80^80) ]`)

	assert.Equal(t, "Jane", cellValue(t, db, "cards", "1", "name"))
}

func TestBuild_BootstrapAliasValue(t *testing.T) {
	// "28" is predefined as '(' in every dictionary.
	db := mustBuild(t, "[ 1:cards (paren^28) ]")
	assert.Equal(t, "(", cellValue(t, db, "cards", "1", "paren"))
}

func TestBuild_LiteralsAreDecoded(t *testing.T) {
	db := mustBuild(t, `[ 1:cards (na$6De=Caf$C3$A9) ]`)
	assert.Equal(t, "Café", cellValue(t, db, "cards", "1", "name"))
}

func TestBuild_EmptyCellValue(t *testing.T) {
	db := mustBuild(t, "[ 1:cards (flag) ]")
	assert.Equal(t, "", cellValue(t, db, "cards", "1", "flag"))
}

func TestBuild_LastCellWinsWithinRow(t *testing.T) {
	db := mustBuild(t, "[ 1:cards (a=first)(a=second) ]")
	assert.Equal(t, "second", cellValue(t, db, "cards", "1", "a"))
}

func TestBuild_DictOverlay(t *testing.T) {
	db := mustBuild(t, `
< (80=old)(81=keep) >
< (80=new) >
[ 1:s (x^80)(y^81) ]`)

	assert.Equal(t, "new", cellValue(t, db, "s", "1", "x"))
	assert.Equal(t, "keep", cellValue(t, db, "s", "1", "y"))
}

func TestBuild_MetaDictRedirectsNamespace(t *testing.T) {
	// (66=hi!) lands in "c" via the meta-dict; "a" keeps the bootstrap
	// identity for 66, which is 'f'.
	db := mustBuild(t, `< <(a=c)> (66=hi$21) >`)

	v, err := db.Dicts().Get("c", "66")
	require.NoError(t, err)
	assert.Equal(t, "hi!", v)

	v, err = db.Dicts().Get("a", "66")
	require.NoError(t, err)
	assert.Equal(t, "f", v)
}

func TestBuild_MultipleMetaDicts(t *testing.T) {
	err := buildErr(t, "< <(a=c)> <(a=x)> (80=y) >")
	assert.ErrorIs(t, err, ErrMetaDict)
}

func TestBuild_SymbolicRowNamespace(t *testing.T) {
	// The row's namespace is itself an alias resolved through "c".
	db := mustBuild(t, `
< <(a=c)> (80=history) >
[ 1:^80 (url=example) ]`)

	assert.Equal(t, "example", cellValue(t, db, "history", "1", "url"))
}

func TestBuild_RowReplacedWholesale(t *testing.T) {
	db := mustBuild(t, `
[ 1:cards (name=John)(mail=j@x) ]
[ 1:cards (name=Jane) ]`)

	row, ok := db.Row("cards", "1")
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, row.Columns())
	assert.Equal(t, "Jane", cellValue(t, db, "cards", "1", "name"))
}

func TestBuild_SameIDDistinctNamespaces(t *testing.T) {
	db := mustBuild(t, `
[ 1:cards (name=card) ]
[ 1:history (name=visit) ]`)

	assert.Equal(t, "card", cellValue(t, db, "cards", "1", "name"))
	assert.Equal(t, "visit", cellValue(t, db, "history", "1", "name"))
	assert.Len(t, db.Rows(), 2)
}

func TestBuild_TableMembers(t *testing.T) {
	db := mustBuild(t, `
[ 5:cards (name=a) ]
[ 6:history (name=b) ]
{ 1:cards 5 6:history [ 7 (name=c) ] }`)

	tbl, ok := db.Table("cards", "1")
	require.True(t, ok)
	require.Equal(t, 3, tbl.Len())

	// Bare refs default to the table's namespace; inline rows inherit it.
	assert.Equal(t, []Key{
		{Namespace: "cards", ID: "5"},
		{Namespace: "history", ID: "6"},
		{Namespace: "cards", ID: "7"},
	}, tbl.Members())

	assert.Equal(t, "c", cellValue(t, db, "cards", "7", "name"))
}

func TestBuild_TableRowsSeeRedefinitions(t *testing.T) {
	db := mustBuild(t, `
[ 5:cards (name=old) ]
{ 1:cards 5 }
[ 5:cards (name=new) ]`)

	tbl, ok := db.Table("cards", "1")
	require.True(t, ok)
	rows := db.TableRows(tbl)
	require.Len(t, rows, 1)

	v, ok := rows[0].Value("name")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestBuild_TableReplacedWholesale(t *testing.T) {
	db := mustBuild(t, `
[ 5:cards (a=1) ]
[ 6:cards (a=2) ]
{ 1:cards 5 6 }
{ 1:cards 6 }`)

	tbl, ok := db.Table("cards", "1")
	require.True(t, ok)
	assert.Equal(t, []Key{{Namespace: "cards", ID: "6"}}, tbl.Members())
}

func TestBuild_Failures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"undefined_value_alias", "[ 1:cards (name^99) ]", ErrUndefinedAlias},
		{"undefined_column_alias", "[ 1:cards (^99=x) ]", ErrUndefinedAlias},
		{"undefined_scope_alias", "[ 1:^99 (a=b) ]", ErrUndefinedAlias},
		{"row_without_namespace", "[ 1 (a=b) ]", ErrNoNamespace},
		{"table_without_namespace", "{ 1 }", ErrNoNamespace},
		{"table_forward_reference", "{ 1:cards 5 }", ErrRowNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := buildErr(t, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBuild_GroupsAreSkipped(t *testing.T) {
	db := mustBuild(t, `
[ 1:cards (a=b) ]
@$${2{@ [ 9:cards (x=y) ] @$$}2}@`)

	_, ok := db.Row("cards", "9")
	assert.False(t, ok)
	assert.Len(t, db.Rows(), 1)
}

func TestBuild_Idempotent(t *testing.T) {
	input := `
< <(a=c)> (80=name) >
< (81=John) >
[ 1:cards (^80^81) ]
{ 1:cards 1 }`

	a := mustBuild(t, input)
	b := mustBuild(t, input)

	require.Len(t, b.Rows(), len(a.Rows()))
	for _, row := range a.Rows() {
		other, ok := b.Row(row.Namespace, row.ID)
		require.True(t, ok)
		assert.Equal(t, row.Columns(), other.Columns())
		for _, col := range row.Columns() {
			va, _ := row.Value(col)
			vb, _ := other.Value(col)
			assert.Equal(t, va, vb)
		}
	}
}
