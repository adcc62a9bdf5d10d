package nodes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
)

// Retrieve resolves extraction records into serialized product blocks.
// Specific beats general: whenever any product names were extracted, category
// records are ignored entirely. Unknown names are dropped with a diagnostic,
// never an error.
func Retrieve(in *GraphState, catalog contractx.Catalog) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.ProductInfo = Resolve(in.Records, catalog)
	return in, nil
}

// Resolve is the pure record-to-text resolution used by Retrieve.
func Resolve(records []contractx.Record, catalog contractx.Catalog) string {
	if len(records) == 0 {
		return ""
	}

	productNames := unionProducts(records)

	var blocks []string
	if len(productNames) > 0 {
		for _, name := range productNames {
			product, ok := catalog.LookupProduct(name)
			if !ok {
				log.Warn().Str("step", "retrieve").Str("product", name).
					Msg("extracted product not in catalog, skipping")
				continue
			}
			if block, ok := serializeProduct(product); ok {
				blocks = append(blocks, block)
			}
		}
		return strings.Join(blocks, "\n")
	}

	for _, category := range unionCategories(records) {
		for _, product := range catalog.LookupCategory(category) {
			if block, ok := serializeProduct(product); ok {
				blocks = append(blocks, block)
			}
		}
	}
	return strings.Join(blocks, "\n")
}

// unionProducts returns the deduplicated product names across all product
// group records, in first-seen order.
func unionProducts(records []contractx.Record) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		if !rec.IsProductGroup() {
			continue
		}
		for _, name := range rec.Products {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

func unionCategories(records []contractx.Record) []string {
	var categories []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		if !rec.IsCategory() {
			continue
		}
		if _, ok := seen[rec.Category]; ok {
			continue
		}
		seen[rec.Category] = struct{}{}
		categories = append(categories, rec.Category)
	}
	return categories
}

func serializeProduct(p contractx.Product) (string, bool) {
	block, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		log.Warn().Str("step", "retrieve").Str("product", p.Name).Err(err).
			Msg("product serialization failed, skipping")
		return "", false
	}
	return string(block), true
}
