package main

import (
	"encoding/json"
	"fmt"
	"os"

	router "github.com/abfhdays/intelligent-query-router"
	"github.com/google/jsonschema-go/jsonschema"
)

// tablesFileSchema describes the shape of a -tables JSON file: a list of
// catalog entries, each an optional declared schema. Validated with
// jsonschema-go before being decoded into router.Table values, the same
// resolve-then-validate sequence the teacher uses for declared-attribute
// JSON documents in internal/transformer.go.
const tablesFileSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "rootPath"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"rootPath": {"type": "string", "minLength": 1},
			"columns": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["name", "type"],
					"properties": {
						"name": {"type": "string"},
						"type": {"type": "string", "enum": ["int64", "float64", "bool", "string", "date", "timestamp_ns", "null"]}
					}
				}
			}
		}
	}
}`

type tableEntry struct {
	Name     string `json:"name"`
	RootPath string `json:"rootPath"`
	Columns  []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"columns"`
}

// loadTables reads, schema-validates, and decodes a -tables JSON file. An
// empty path yields no tables.
func loadTables(path string) ([]router.Table, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables file %s: %w", path, err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(tablesFileSchema), &schema); err != nil {
		return nil, fmt.Errorf("parse embedded tables schema: %w", err)
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil, fmt.Errorf("resolve embedded tables schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tables file %s: %w", path, err)
	}
	if err := resolved.Validate(raw); err != nil {
		return nil, fmt.Errorf("tables file %s failed validation: %w", path, err)
	}

	var entries []tableEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode tables file %s: %w", path, err)
	}

	tables := make([]router.Table, 0, len(entries))
	for _, e := range entries {
		var cols []router.ColumnDef
		for _, c := range e.Columns {
			cols = append(cols, router.ColumnDef{Name: c.Name, Type: router.LogicalType(c.Type)})
		}
		tables = append(tables, router.Table{Name: e.Name, RootPath: e.RootPath, DeclaredSchema: cols})
	}
	return tables, nil
}
