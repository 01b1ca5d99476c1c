package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mork-export/internal/morkdb"
	"mork-export/internal/morkparse"
)

const testLayout = "2006-01-02 15:04:05"

func utcOpts() *Options {
	return &Options{TimeFormat: testLayout, Location: time.UTC}
}

func unixUTC(sec int64) string {
	return time.Unix(sec, 0).In(time.UTC).Format(testLayout)
}

func TestHexInt(t *testing.T) {
	got, err := hexInt.convert(utcOpts(), "1f")
	require.NoError(t, err)
	assert.Equal(t, "31", got)

	_, err = hexInt.convert(utcOpts(), "xyz")
	assert.Error(t, err)

	got, err = hexInt.convert(&Options{NoBase: true}, "1f")
	require.NoError(t, err)
	assert.Equal(t, "1f", got)
}

func TestSignedInt32(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ffffffff", "-1"},
		{"fffffffe", "-2"},
		{"5", "5"},
		{"0", "0"},
		{"7fffffff", "2147483647"},
	}
	for _, tc := range tests {
		got, err := signedInt32.convert(utcOpts(), tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %s", tc.input)
	}

	_, err := signedInt32.convert(utcOpts(), "100000000")
	assert.Error(t, err)
}

func TestBoolConverters(t *testing.T) {
	got, err := boolInt.convert(utcOpts(), "0")
	require.NoError(t, err)
	assert.Equal(t, "false", got)

	got, err = boolInt.convert(utcOpts(), "1")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	got, err = boolAny.convert(utcOpts(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "true", got)
}

func TestEnumConv(t *testing.T) {
	cardType := enumOf("normal", "AOL groups", "AOL additional email").
		withDefault("normal")

	got, err := cardType.convert(utcOpts(), "")
	require.NoError(t, err)
	assert.Equal(t, "normal", got)

	got, err = cardType.convert(utcOpts(), "1")
	require.NoError(t, err)
	assert.Equal(t, "AOL groups", got)

	// Unknown values fall back to the default when one is set.
	got, err = cardType.convert(utcOpts(), "9")
	require.NoError(t, err)
	assert.Equal(t, "normal", got)

	// Without a default, unknowns pass through.
	got, err = msgPriority.convert(utcOpts(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	got, err = msgPriority.convert(utcOpts(), "4")
	require.NoError(t, err)
	assert.Equal(t, "normal", got)
}

func TestFolderFlags(t *testing.T) {
	// Bit 2 (Mail) and bit 12 (Inbox).
	got, err := msgFolderFlags.convert(utcOpts(), "1004")
	require.NoError(t, err)
	assert.Equal(t, "Mail Inbox", got)

	got, err = msgFolderFlags.convert(utcOpts(), "0")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = msgFolderFlags.convert(&Options{NoSymbolic: true}, "1004")
	require.NoError(t, err)
	assert.Equal(t, "1004", got)
}

func TestMsgFlags(t *testing.T) {
	// Bit 0 (Read) plus priority sub-field 5 (high).
	got, err := msgFlags.convert(utcOpts(), "a001")
	require.NoError(t, err)
	assert.Equal(t, "Read Priorities:high", got)

	got, err = msgFlags.convert(utcOpts(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Read", got)

	// Label sub-field above the flag bits.
	got, err = msgFlags.convert(utcOpts(), "2000000")
	require.NoError(t, err)
	assert.Equal(t, "Labels:0x1", got)
}

func TestImapFlags(t *testing.T) {
	got, err := imapFlags.convert(utcOpts(), "0")
	require.NoError(t, err)
	assert.Equal(t, "kNoImapMsgFlag", got)

	got, err = imapFlags.convert(utcOpts(), "1")
	require.NoError(t, err)
	assert.Equal(t, "kImapMsgSeenFlag", got)

	got, err = imapFlags.convert(utcOpts(), "200")
	require.NoError(t, err)
	assert.Equal(t, "Labels:0x1", got)
}

func TestSecondsConv(t *testing.T) {
	got, err := seconds.convert(utcOpts(), "1200000000")
	require.NoError(t, err)
	assert.Equal(t, unixUTC(1200000000), got)

	// Hex-encoded seconds.
	got, err = hexSeconds.convert(utcOpts(), "47868c40")
	require.NoError(t, err)
	assert.Equal(t, unixUTC(0x47868c40), got)

	// Microseconds truncate to the second.
	got, err = microsecs.convert(utcOpts(), "1200000000500000")
	require.NoError(t, err)
	assert.Equal(t, unixUTC(1200000000), got)

	// Zero is a placeholder, not the epoch.
	got, err = seconds.convert(utcOpts(), "0")
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	got, err = seconds.convert(&Options{NoTime: true}, "1200000000")
	require.NoError(t, err)
	assert.Equal(t, "1200000000", got)
}

func TestPurgeTimeConv(t *testing.T) {
	got, err := purgeTime.convert(utcOpts(), "Thu Jan 10 21:20:00 2008")
	require.NoError(t, err)
	assert.Equal(t, "2008-01-10 21:20:00", got)

	_, err = purgeTime.convert(utcOpts(), "not a time")
	assert.Error(t, err)
}

func TestHierDelimConv(t *testing.T) {
	conv := hierDelimConv{}

	got, err := conv.convert(utcOpts(), "5e")
	require.NoError(t, err)
	assert.Equal(t, "kOnlineHierarchySeparatorUnknown", got)

	got, err = conv.convert(utcOpts(), "7c")
	require.NoError(t, err)
	assert.Equal(t, "kOnlineHierarchySeparatorNil", got)

	got, err = conv.convert(utcOpts(), "2f")
	require.NoError(t, err)
	assert.Equal(t, "/", got)
}

func TestSortColumnsConv(t *testing.T) {
	conv := sortColumnsConv{}

	got, err := conv.convert(utcOpts(), string([]byte{0x12, '1'}))
	require.NoError(t, err)
	assert.Equal(t, "type:byDate order:ascending", got)

	// Two CR-separated sort levels.
	input := string([]byte{0x12, '1'}) + "\r" + string([]byte{0x14, '2'})
	got, err = conv.convert(utcOpts(), input)
	require.NoError(t, err)
	assert.Equal(t, "type:byDate order:ascending, type:byAuthor order:descending", got)

	// byCustom carries the custom column name.
	got, err = conv.convert(utcOpts(), string([]byte{0x22, '2'})+"MyColumn")
	require.NoError(t, err)
	assert.Equal(t, "type:byCustom order:descending custom:MyColumn", got)

	_, err = conv.convert(utcOpts(), string([]byte{0x99, '1'}))
	assert.Error(t, err)
}

func historyDB(t *testing.T, cells string) *morkdb.Database {
	t.Helper()
	input := "< <(a=c)> (80=ns:history:db:row:scope:history:all) >\n" +
		"[ 1:^80 " + cells + " ]"
	tree, err := morkparse.Parse(input)
	require.NoError(t, err)
	db, err := morkdb.Build(tree)
	require.NoError(t, err)
	return db
}

func TestFieldConvert_Process(t *testing.T) {
	db := historyDB(t, "(LastVisitDate=1200000000000000)(Typed=1)(URL=http://x)")

	require.NoError(t, FieldConvert{}.Process(db, utcOpts()))

	row, ok := db.Row("ns:history:db:row:scope:history:all", "1")
	require.True(t, ok)

	v, _ := row.Value("LastVisitDate")
	assert.Equal(t, unixUTC(1200000000), v)
	v, _ = row.Value("Typed")
	assert.Equal(t, "true", v)
	// Columns without a converter pass through.
	v, _ = row.Value("URL")
	assert.Equal(t, "http://x", v)
}

func TestFieldConvert_KeepsUnparsableValues(t *testing.T) {
	db := historyDB(t, "(FirstVisitDate=not-a-number)")

	require.NoError(t, FieldConvert{}.Process(db, utcOpts()))

	row, _ := db.Row("ns:history:db:row:scope:history:all", "1")
	v, _ := row.Value("FirstVisitDate")
	assert.Equal(t, "not-a-number", v)
}

func TestFieldConvert_NoConvert(t *testing.T) {
	db := historyDB(t, "(Typed=1)")

	opts := utcOpts()
	opts.NoConvert = true
	require.NoError(t, FieldConvert{}.Process(db, opts))

	row, _ := db.Row("ns:history:db:row:scope:history:all", "1")
	v, _ := row.Value("Typed")
	assert.Equal(t, "1", v)
}
