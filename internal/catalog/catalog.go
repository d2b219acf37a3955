// Package catalog loads equipment schemas: the built-in set embedded in the
// binary, optionally overridden or extended by YAML files in a directory.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
)

//go:embed schemas/*.yaml
var builtin embed.FS

// Ensure Catalog implements the interface.
var _ driven.SchemaCatalog = (*Catalog)(nil)

// Catalog is an immutable set of validated schemas.
type Catalog struct {
	schemas map[string]*domain.Schema
	keys    []string
}

// Load reads the embedded schemas, then every *.yaml / *.yml file in dir.
// A file whose key matches an existing schema replaces it. An empty dir
// loads the embedded schemas only. Every schema is validated, including
// its derived field calculators against reg.
func Load(dir string, reg *calculators.Registry) (*Catalog, error) {
	schemas := make(map[string]*domain.Schema)

	if err := loadFS(builtin, "schemas", schemas); err != nil {
		return nil, err
	}
	if dir != "" {
		if err := loadFS(os.DirFS(dir), ".", schemas); err != nil {
			return nil, err
		}
	}
	return build(schemas, reg)
}

// Builtin returns the embedded schemas only.
func Builtin(reg *calculators.Registry) (*Catalog, error) {
	return Load("", reg)
}

// New builds a catalog from explicit schemas. Later duplicates replace
// earlier ones.
func New(reg *calculators.Registry, schemas ...domain.Schema) (*Catalog, error) {
	m := make(map[string]*domain.Schema, len(schemas))
	for i := range schemas {
		s := schemas[i]
		m[s.Key] = &s
	}
	return build(m, reg)
}

func build(schemas map[string]*domain.Schema, reg *calculators.Registry) (*Catalog, error) {
	c := &Catalog{schemas: schemas, keys: make([]string, 0, len(schemas))}
	for key, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if reg != nil {
			if err := reg.Check(s); err != nil {
				return nil, err
			}
		}
		c.keys = append(c.keys, key)
	}
	sort.Slice(c.keys, func(i, j int) bool {
		a, b := schemas[c.keys[i]], schemas[c.keys[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Key < b.Key
	})
	return c, nil
}

func loadFS(fsys fs.FS, root string, into map[string]*domain.Schema) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read schema dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !isSchemaFile(e.Name()) {
			continue
		}
		name := filepath.ToSlash(filepath.Join(root, e.Name()))
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		s, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
		into[s.Key] = s
	}
	return nil
}

// Parse decodes one YAML schema. Unknown keys are rejected.
func Parse(data []byte) (*domain.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s domain.Schema
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSchema, err)
	}
	if s.Mode == "" {
		s.Mode = domain.ModeCalc
	}
	return &s, nil
}

func isSchemaFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Get returns the schema for an equipment key.
func (c *Catalog) Get(key string) (*domain.Schema, bool) {
	s, ok := c.schemas[key]
	return s, ok
}

// Keys returns every equipment key in display order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// All returns every schema in display order.
func (c *Catalog) All() []domain.Schema {
	out := make([]domain.Schema, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, *c.schemas[k])
	}
	return out
}

// Len returns the number of schemas.
func (c *Catalog) Len() int {
	return len(c.keys)
}
