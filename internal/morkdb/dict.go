package morkdb

import (
	"fmt"
	"sort"
)

// DictStore maps namespace → alias table (short hex id → decoded literal).
//
// Namespaces "a" (value aliases) and "c" (column-name aliases) exist before
// any explicit definition, and every namespace created by Merge starts from
// the same bootstrap table: the identity mapping for code points 0x00–0x7F.
// Aliases are keyed both in minimal uppercase hex ("0".."7F", the form the
// reference behavior seeds) and zero-padded two-digit hex ("00".."0F"),
// since files write alias ids without padding but references to the low
// range appear in either form.
type DictStore struct {
	tables map[string]map[string]string
}

// NewDictStore creates a store with the ambient "a" and "c" namespaces.
func NewDictStore() *DictStore {
	d := &DictStore{tables: make(map[string]map[string]string)}
	d.tables["a"] = identityTable()
	d.tables["c"] = identityTable()
	return d
}

func identityTable() map[string]string {
	m := make(map[string]string, 0x90)
	for i := 0; i < 0x80; i++ {
		v := string(rune(i))
		m[fmt.Sprintf("%X", i)] = v
		m[fmt.Sprintf("%02X", i)] = v
	}
	return m
}

// Get resolves an alias in a namespace. Undefined namespaces and undefined
// aliases both fail with ErrUndefinedAlias.
func (d *DictStore) Get(namespace, alias string) (string, error) {
	t, ok := d.tables[namespace]
	if !ok {
		return "", fmt.Errorf("namespace %q: %w", namespace, ErrUndefinedAlias)
	}
	v, ok := t[alias]
	if !ok {
		return "", fmt.Errorf("alias %q in namespace %q: %w", alias, namespace, ErrUndefinedAlias)
	}
	return v, nil
}

// Merge overlays entries into a namespace, creating it (bootstrap-seeded)
// if absent. Later entries win per alias; there is no removal.
func (d *DictStore) Merge(namespace string, entries map[string]string) {
	t, ok := d.tables[namespace]
	if !ok {
		t = identityTable()
		d.tables[namespace] = t
	}
	for alias, value := range entries {
		t[alias] = value
	}
}

// Namespaces returns the defined namespace names, sorted.
func (d *DictStore) Namespaces() []string {
	out := make([]string, 0, len(d.tables))
	for ns := range d.tables {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of aliases defined in a namespace.
func (d *DictStore) Len(namespace string) int {
	return len(d.tables[namespace])
}
