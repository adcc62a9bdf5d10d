package contract

import "context"

// Oracle is the external language-model service. Both calls are synchronous
// and attempted exactly once per turn; deadlines belong to the transport.
type Oracle interface {
	// ChatCompletion sends an ordered message list to a text-completion
	// model and returns the raw reply text.
	ChatCompletion(ctx context.Context, model string, messages []Message, temperature float64) (string, error)

	// SafetyClassify sends text as the sole user turn to a safety
	// classification model and returns its raw textual verdict.
	SafetyClassify(ctx context.Context, model string, text string) (string, error)
}

// Catalog is the read-only product table. Implementations must be safe for
// unsynchronized concurrent reads.
type Catalog interface {
	LookupProduct(name string) (Product, bool)
	LookupCategory(category string) []Product
	// Summary returns category -> ordered product names, for prompt injection.
	Summary() map[string][]string
}
