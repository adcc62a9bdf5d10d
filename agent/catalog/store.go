package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
)

// Store is the immutable in-memory product table. All indices are built once
// at construction, so lookups are read-only and safe for concurrent use.
type Store struct {
	products   map[string]contractx.Product // canonical name -> product
	nameIndex  map[string]string            // lowercase name -> canonical name
	byCategory map[string][]string          // lowercase category -> ordered canonical names
	categories map[string]string            // lowercase category -> display name
}

var _ contractx.Catalog = (*Store)(nil)

// NewStore builds a store from a product list. A later product with the same
// case-insensitive name replaces an earlier one, matching the keyed-table
// source shape. An empty list is a valid degenerate catalog.
func NewStore(products []contractx.Product) *Store {
	s := &Store{
		products:   make(map[string]contractx.Product, len(products)),
		nameIndex:  make(map[string]string, len(products)),
		byCategory: make(map[string][]string),
		categories: make(map[string]string),
	}

	for _, p := range products {
		lower := strings.ToLower(p.Name)
		if lower == "" {
			continue
		}
		if prev, ok := s.nameIndex[lower]; ok {
			delete(s.products, prev)
		}
		s.nameIndex[lower] = p.Name
		s.products[p.Name] = p
	}

	for name, p := range s.products {
		catLower := strings.ToLower(p.Category)
		if catLower == "" {
			continue
		}
		s.categories[catLower] = p.Category
		s.byCategory[catLower] = append(s.byCategory[catLower], name)
	}
	for _, names := range s.byCategory {
		sort.Strings(names)
	}

	return s
}

// LoadFile reads a JSON catalog keyed by product name. A missing or
// malformed file is a fatal configuration error.
func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrCatalogLoad, path, err)
	}

	var table map[string]contractx.Product
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", contractx.ErrCatalogLoad, path, err)
	}

	products := make([]contractx.Product, 0, len(table))
	for key, p := range table {
		if p.Name == "" {
			p.Name = key
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	return NewStore(products), nil
}

func (s *Store) LookupProduct(name string) (contractx.Product, bool) {
	canonical, ok := s.nameIndex[strings.ToLower(name)]
	if !ok {
		return contractx.Product{}, false
	}
	p, ok := s.products[canonical]
	return p, ok
}

func (s *Store) LookupCategory(category string) []contractx.Product {
	names := s.byCategory[strings.ToLower(category)]
	out := make([]contractx.Product, 0, len(names))
	for _, name := range names {
		if p, ok := s.products[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Summary() map[string][]string {
	out := make(map[string][]string, len(s.byCategory))
	for catLower, names := range s.byCategory {
		out[s.categories[catLower]] = append([]string(nil), names...)
	}
	return out
}

func (s *Store) Len() int {
	return len(s.products)
}
