// Package counts holds the Counts Document produced by one page analysis.
package counts

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindScalar Kind = iota
	KindStringList
	KindTableList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStringList:
		return "string_list"
	case KindTableList:
		return "table_list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Row is the trimmed text of the header/data cells of one table row.
type Row []string

// Table is every row found inside one table element. Rows may differ in length.
type Table []Row

// Dimensions returns the row count and the widest row's cell count.
func (t Table) Dimensions() (rows, cols int) {
	for _, r := range t {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return len(t), cols
}

// Value is one category's result. The zero Value is Scalar(0).
type Value struct {
	kind   Kind
	n      int
	items  []string
	tables []Table
}

// Scalar returns a count value. n must not be negative.
func Scalar(n int) Value {
	if n < 0 {
		panic(fmt.Sprintf("counts: negative scalar %d", n))
	}
	return Value{kind: KindScalar, n: n}
}

// StringList returns a list value holding a copy of items.
func StringList(items []string) Value {
	return Value{kind: KindStringList, items: copyStrings(items)}
}

// TableList returns a structured value holding a deep copy of tables.
func TableList(tables []Table) Value {
	return Value{kind: KindTableList, tables: copyTables(tables)}
}

func (v Value) Kind() Kind { return v.kind }

// Int returns the scalar count, or 0 for list variants.
func (v Value) Int() int { return v.n }

// Strings returns a copy of the list items.
func (v Value) Strings() []string { return copyStrings(v.items) }

// Tables returns a deep copy of the extracted tables.
func (v Value) Tables() []Table { return copyTables(v.tables) }

// Len is the scalar count for scalars and the element count for lists.
func (v Value) Len() int {
	switch v.kind {
	case KindStringList:
		return len(v.items)
	case KindTableList:
		return len(v.tables)
	default:
		return v.n
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindStringList:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	case KindTableList:
		if v.tables == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.tables)
	default:
		return json.Marshal(v.n)
	}
}

// Entry is one key/value pair in document order.
type Entry struct {
	Key   string
	Value Value
}

// Document is an ordered, immutable mapping of category name to Value.
type Document struct {
	entries []Entry
	index   map[string]int
}

// Keys returns the category names in document order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the value for key.
func (d *Document) Get(key string) (Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return Value{}, false
	}
	return d.entries[i].Value, true
}

// Entries returns the pairs in document order.
func (d *Document) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *Document) Len() int { return len(d.entries) }

// MarshalJSON encodes the document as a JSON object preserving key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Builder assembles a Document one category at a time.
type Builder struct {
	entries []Entry
	index   map[string]int
}

func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Set appends key. Setting the same key twice is an error.
func (b *Builder) Set(key string, v Value) error {
	if key == "" {
		return fmt.Errorf("counts: empty category name")
	}
	if _, ok := b.index[key]; ok {
		return fmt.Errorf("counts: duplicate category %q", key)
	}
	b.index[key] = len(b.entries)
	b.entries = append(b.entries, Entry{Key: key, Value: v})
	return nil
}

// Document freezes the builder's contents. The builder may keep being used;
// later Sets do not affect documents already returned.
func (b *Builder) Document() *Document {
	entries := make([]Entry, len(b.entries))
	copy(entries, b.entries)
	index := make(map[string]int, len(b.index))
	for k, i := range b.index {
		index[k] = i
	}
	return &Document{entries: entries, index: index}
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyTables(in []Table) []Table {
	if in == nil {
		return nil
	}
	out := make([]Table, len(in))
	for i, t := range in {
		rows := make(Table, len(t))
		for j, r := range t {
			rows[j] = Row(copyStrings(r))
		}
		out[i] = rows
	}
	return out
}
