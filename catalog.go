package router

import (
	"fmt"
	"sync"
)

// ColumnDef is one column of a table's optional declared schema.
type ColumnDef struct {
	Name string
	Type LogicalType
}

// Table is a catalog entry: a logical name bound to a root directory plus
// an optional declared schema. Created at registration; immutable
// thereafter (spec.md §3).
type Table struct {
	Name           string
	RootPath       string
	DeclaredSchema []ColumnDef // nil when no schema was declared
}

// ResolveColumn looks up a declared column by name. It returns
// ErrAmbiguousColumn if the declared schema lists the name more than once
// — RegisterTable doesn't reject a duplicate column name, so a malformed
// table definition surfaces here, against the predicates that actually
// reference it, rather than being rejected at registration time — and
// ok=false when no schema is declared or the column is absent.
func (t Table) ResolveColumn(name string) (col ColumnDef, ok bool, err error) {
	if len(t.DeclaredSchema) == 0 {
		return ColumnDef{}, false, nil
	}
	found := false
	for _, c := range t.DeclaredSchema {
		if c.Name == name {
			if found {
				return ColumnDef{}, false, NewAmbiguousColumnError(name)
			}
			col = c
			found = true
		}
	}
	return col, found, nil
}

// Catalog maps logical table names to registered Table values.
type Catalog interface {
	RegisterTable(t Table) error
	Lookup(name string) (Table, error)
	Tables() []Table
}

// InMemoryCatalog is the default, process-local Catalog implementation. It
// is read-mostly: RegisterTable takes an exclusive lock, Lookup/Tables take
// a shared one (spec.md §5).
type InMemoryCatalog struct {
	mu     sync.RWMutex
	tables map[string]Table
}

// NewInMemoryCatalog constructs an empty catalog.
func NewInMemoryCatalog() *InMemoryCatalog {
	return &InMemoryCatalog{tables: make(map[string]Table)}
}

// RegisterTable adds or replaces a table definition.
func (c *InMemoryCatalog) RegisterTable(t Table) error {
	if t.Name == "" {
		return fmt.Errorf("table name must not be empty")
	}
	if t.RootPath == "" {
		return fmt.Errorf("table %q: root path must not be empty", t.Name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[t.Name] = t
	return nil
}

// Lookup returns the registered table or ErrUnknownTable.
func (c *InMemoryCatalog) Lookup(name string) (Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return Table{}, NewUnknownTableError(name)
	}
	return t, nil
}

// Tables returns a snapshot of all registered tables.
func (c *InMemoryCatalog) Tables() []Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Table, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	return out
}
