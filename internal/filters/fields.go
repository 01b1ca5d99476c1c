package filters

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"mork-export/internal/morkdb"
)

// fieldConverter turns one already-resolved field value into its
// human-readable form.
type fieldConverter interface {
	convert(opts *Options, value string) (string, error)
}

// === Integers ===

type intConv struct {
	base int
}

func (c intConv) parse(value string) (int64, error) {
	return strconv.ParseInt(value, c.base, 64)
}

func (c intConv) convert(opts *Options, value string) (string, error) {
	if opts.NoBase {
		return value, nil
	}
	v, err := c.parse(value)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

// signedInt32Conv reinterprets a hex field as a signed 32-bit quantity so
// that counts stored as 0xFFFFFFFF render as -1 rather than 4294967295.
type signedInt32Conv struct{}

func (signedInt32Conv) convert(opts *Options, value string) (string, error) {
	if opts.NoBase {
		return value, nil
	}
	v, err := strconv.ParseUint(value, 16, 64)
	if err != nil {
		return "", err
	}
	if v > 0xFFFFFFFF {
		return "", fmt.Errorf("integer %q too large for 32 bits", value)
	}
	return strconv.FormatInt(int64(int32(uint32(v))), 10), nil
}

// === Flag bitfields ===

type flagsConv struct {
	names []string // bit i → names[i]; empty entries are unnamed bits
	empty string   // rendered when no flag is set
}

func (c flagsConv) convert(opts *Options, value string) (string, error) {
	if opts.NoSymbolic {
		return value, nil
	}
	v, err := strconv.ParseInt(value, 16, 64)
	if err != nil {
		return "", err
	}
	flags := c.flagNames(v)
	if len(flags) == 0 {
		return c.empty, nil
	}
	return strings.Join(flags, " "), nil
}

func (c flagsConv) flagNames(v int64) []string {
	var out []string
	for i, name := range c.names {
		if name == "" {
			continue
		}
		bit := int64(1) << i
		if v&bit != 0 {
			out = append(out, name)
			v -= bit
		}
	}
	if v != 0 {
		slog.Warn("unknown flag bits", "bits", fmt.Sprintf("0x%X", v))
	}
	return out
}

// msgFlagsConv handles message flags, whose field also packs a priority
// and label sub-field alongside the plain flag bits.
type msgFlagsConv struct {
	flags flagsConv
}

var msgPriorityLabels = []string{
	"notSet", "none", "lowest", "low", "normal", "high", "highest",
}

func (c msgFlagsConv) convert(opts *Options, value string) (string, error) {
	if opts.NoSymbolic {
		return value, nil
	}
	v, err := strconv.ParseInt(value, 16, 64)
	if err != nil {
		return "", err
	}

	priority := (v & 0xE000) >> 13
	v &^= 0xE000
	labels := (v & 0xE000000) >> 25
	v &^= 0xE000000

	if priority >= int64(len(msgPriorityLabels)) {
		return "", fmt.Errorf("invalid priority %d in %q", priority, value)
	}

	flags := c.flags.flagNames(v)
	if priority != 0 {
		flags = append(flags, "Priorities:"+msgPriorityLabels[priority])
	}
	if labels != 0 {
		flags = append(flags, fmt.Sprintf("Labels:0x%X", labels))
	}
	return strings.Join(flags, " "), nil
}

// imapFlagsConv handles IMAP message flags with their label sub-field.
type imapFlagsConv struct {
	flags flagsConv
}

func (c imapFlagsConv) convert(opts *Options, value string) (string, error) {
	if opts.NoSymbolic {
		return value, nil
	}
	v, err := strconv.ParseInt(value, 16, 64)
	if err != nil {
		return "", err
	}

	labels := (v & 0xE00) >> 9
	v &^= 0xE00

	flags := c.flags.flagNames(v)
	if len(flags) == 0 && labels == 0 {
		return c.flags.empty, nil
	}
	if labels != 0 {
		flags = append(flags, fmt.Sprintf("Labels:0x%X", labels))
	}
	return strings.Join(flags, " "), nil
}

// === Enumerations and booleans ===

type enumConv struct {
	values  map[int64]string
	dflt    string
	base    int
	hasDflt bool
}

func enumOf(names ...string) enumConv {
	m := make(map[int64]string, len(names))
	for i, n := range names {
		if n != "" {
			m[int64(i)] = n
		}
	}
	return enumConv{values: m, base: 16}
}

func (c enumConv) withDefault(d string) enumConv {
	c.dflt = d
	c.hasDflt = true
	return c
}

func (c enumConv) convert(opts *Options, value string) (string, error) {
	if opts.NoSymbolic {
		return value, nil
	}
	if value == "" {
		if c.hasDflt {
			return c.dflt, nil
		}
		return value, nil
	}
	v, err := strconv.ParseInt(value, c.base, 64)
	if err != nil {
		return "", err
	}
	if name, ok := c.values[v]; ok {
		return name, nil
	}
	if c.hasDflt {
		return c.dflt, nil
	}
	return value, nil
}

// boolAnyConv is for fields that signal something by mere presence; the
// stored value is irrelevant.
type boolAnyConv struct{}

func (boolAnyConv) convert(opts *Options, value string) (string, error) {
	if opts.NoSymbolic {
		return value, nil
	}
	return "true", nil
}

// === Times ===

type secondsConv struct {
	base    int
	divisor int64 // 1 for seconds, 1e6 for microseconds
}

func (c secondsConv) convert(opts *Options, value string) (string, error) {
	if opts.NoTime {
		return value, nil
	}
	// 0 is a common placeholder and not a valid time.
	if value == "0" {
		return value, nil
	}
	v, err := strconv.ParseInt(value, c.base, 64)
	if err != nil {
		return "", err
	}
	t := time.Unix(v/c.divisor, 0).In(opts.location())
	return t.Format(opts.layout()), nil
}

type formattedTimeConv struct {
	parseLayout string
}

func (c formattedTimeConv) convert(opts *Options, value string) (string, error) {
	if opts.NoTime {
		return value, nil
	}
	t, err := time.ParseInLocation(c.parseLayout, value, opts.location())
	if err != nil {
		return "", err
	}
	return t.Format(opts.layout()), nil
}

// hierDelimConv renders the IMAP hierarchy delimiter, which abuses a hex
// character code with two sentinel values.
type hierDelimConv struct{}

func (hierDelimConv) convert(opts *Options, value string) (string, error) {
	if opts.NoSymbolic {
		return value, nil
	}
	v, err := strconv.ParseInt(value, 16, 32)
	if err != nil {
		return "", err
	}
	switch rune(v) {
	case '^':
		return "kOnlineHierarchySeparatorUnknown", nil
	case '|':
		return "kOnlineHierarchySeparatorNil", nil
	default:
		return string(rune(v)), nil
	}
}

// === Sort columns ===

// sortColumnsConv decodes the packed secondary-sort description: CR-separated
// pieces of (sort type char, sort order digit) pairs, where a byCustom type
// is followed by the custom column name.
type sortColumnsConv struct{}

var sortOrderNames = map[byte]string{
	0: "none",
	1: "ascending",
	2: "descending",
}

var sortTypeNames = map[byte]string{
	0x11: "byNone", 0x12: "byDate", 0x13: "bySubject", 0x14: "byAuthor",
	0x15: "byId", 0x16: "byThread", 0x17: "byPriority", 0x18: "byStatus",
	0x19: "bySize", 0x1a: "byFlagged", 0x1b: "byUnread", 0x1c: "byRecipient",
	0x1d: "byLocation", 0x1e: "byTags", 0x1f: "byJunkStatus",
	0x20: "byAttachments", 0x21: "byAccount", 0x22: "byCustom",
	0x23: "byReceived",
}

func (sortColumnsConv) convert(opts *Options, value string) (string, error) {
	if opts.NoSymbolic {
		return value, nil
	}

	var items []string
	for _, piece := range strings.Split(value, "\r") {
		for i := 0; i+1 < len(piece); i += 2 {
			sortType, ok := sortTypeNames[piece[i]]
			if !ok {
				return "", fmt.Errorf("invalid sort type 0x%X", piece[i])
			}
			sortOrder, ok := sortOrderNames[piece[i+1]-'0']
			if !ok {
				return "", fmt.Errorf("invalid sort order %q", piece[i+1])
			}

			item := fmt.Sprintf("type:%s order:%s", sortType, sortOrder)
			if sortType == "byCustom" {
				// The remainder is the custom column name.
				item = fmt.Sprintf("%s custom:%s", item, piece[i+2:])
				items = append(items, item)
				break
			}
			items = append(items, item)
		}
	}
	return strings.Join(items, ", "), nil
}

// === The field-conversion filter ===

// FieldConvert rewrites known fields into human-readable form, looked up
// by row namespace then column name. Unknown namespaces and columns pass
// through untouched; a value a converter cannot parse is kept as-is with
// a diagnostic rather than failing the export.
type FieldConvert struct{}

// Name implements Filter.
func (FieldConvert) Name() string { return "field-conversion" }

// Order implements Filter. Field conversion runs before user scripts.
func (FieldConvert) Order() int { return 2000 }

// Process implements Filter.
func (FieldConvert) Process(db *morkdb.Database, opts *Options) error {
	if opts.NoConvert {
		return nil
	}

	for _, row := range db.Rows() {
		rowConverters, ok := converters[row.Namespace]
		if !ok {
			continue
		}
		for _, column := range row.Columns() {
			conv, ok := rowConverters[column]
			if !ok {
				continue
			}
			value, _ := row.Value(column)
			converted, err := conv.convert(opts, value)
			if err != nil {
				slog.Warn("field conversion failed; keeping raw value",
					"namespace", row.Namespace, "row", row.ID,
					"column", column, "error", err)
				continue
			}
			row.Set(column, converted)
		}
	}
	return nil
}
