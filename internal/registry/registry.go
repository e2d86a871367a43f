package registry

import (
	"errors"
	"fmt"
)

// Entry describes one factory-data field.
type Entry struct {
	ID        string // public identifier, e.g. "base-mac"
	Key       string // board tool key, e.g. "basemac"; empty when reserved
	Writable  bool   // Set is permitted
	Sensitive bool   // value is a credential and should not be echoed
}

// Backed reports whether the entry is stored by the board tool.
func (e Entry) Backed() bool {
	return e.Key != ""
}

// builtin is the default table, in board documentation order.
var builtin = [...]Entry{
	{ID: "base-mac", Key: "basemac"},
	{ID: "model", Key: "model"},
	{ID: "partner-id", Key: "partner_id", Writable: true},
	{ID: "client-cert", Key: "client_cert", Writable: true},
	{ID: "client-priv-key", Key: "client_key", Writable: true, Sensitive: true},
	{ID: "ssid", Key: "wifi-ssid", Writable: true},
	{ID: "ssid-pass", Key: "wifi-pwd", Writable: true, Sensitive: true},
	{ID: "boot-pass", Key: "boot_pwd", Sensitive: true},
	{ID: "root-pass", Key: "root_pwd", Sensitive: true},
	{ID: "device-pass", Key: "web_pwd", Writable: true, Sensitive: true},
	{ID: "device-seed", Key: "device_seed", Sensitive: true},
	{ID: "serial", Key: "sn"},
	{ID: "onu-serial"},
	{ID: "prod-date", Key: "prod-date"},
	{ID: "hw-rev", Key: "hwver"},
	{ID: "manuf", Key: "manuf"},
	{ID: "oui", Key: "oui"},
	{ID: "annex-id", Key: "hwtype"},
}

var defaultTable = &Table{entries: builtin[:]}

// Errors returned by New.
var (
	ErrEmptyID     = errors.New("empty identifier")
	ErrDuplicateID = errors.New("duplicate identifier")
)

// Table is an immutable, ordered set of entries.
type Table struct {
	entries []Entry
}

// Default returns the built-in table.
func Default() *Table {
	return defaultTable
}

// New builds a table from the given entries. Identifiers must be non-empty
// and unique. The entries are copied.
func New(entries ...Entry) (*Table, error) {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyID)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("entry %d %q: %w", i, e.ID, ErrDuplicateID)
		}
		seen[e.ID] = struct{}{}
	}

	t := &Table{entries: make([]Entry, len(entries))}
	copy(t.entries, entries)
	return t, nil
}

// Lookup returns the entry with the given identifier, including reserved
// entries that have no backing key.
func (t *Table) Lookup(id string) (Entry, bool) {
	for _, e := range t.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve returns the entry for id if it exists and is backed by the board
// tool. Unknown and reserved identifiers both report false.
func (t *Table) Resolve(id string) (Entry, bool) {
	e, ok := t.Lookup(id)
	if !ok || !e.Backed() {
		return Entry{}, false
	}
	return e, true
}

// Entries returns a copy of the table in order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
