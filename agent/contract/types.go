package contract

import "encoding/json"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation. History is an ordered slice of
// messages owned by the caller; the pipeline never mutates the slice it is
// handed and always returns a fresh one.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Verdict string

const (
	VerdictAllowed Verdict = "allowed"
	VerdictBlocked Verdict = "blocked"
)

// Record is one entry parsed from the extraction model's output: either a
// category reference or a group of product names. Exactly one side is set;
// a record with neither is ignored downstream.
type Record struct {
	Category string   `json:"category,omitempty"`
	Products []string `json:"products,omitempty"`
}

func (r Record) IsCategory() bool {
	return r.Category != "" && len(r.Products) == 0
}

func (r Record) IsProductGroup() bool {
	return len(r.Products) > 0
}

// Product is a catalog entry. Name is the unique, case-insensitively matched
// key. Attributes carries the free-form descriptive fields (price, rating,
// features, ...) so a product round-trips through JSON without a fixed schema.
type Product struct {
	Name       string
	Category   string
	Brand      string
	Attributes map[string]any
}

func (p Product) MarshalJSON() ([]byte, error) {
	merged := make(map[string]any, len(p.Attributes)+3)
	for k, v := range p.Attributes {
		merged[k] = v
	}
	merged["name"] = p.Name
	merged["category"] = p.Category
	merged["brand"] = p.Brand
	return json.Marshal(merged)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["name"].(string); ok {
		p.Name = v
	}
	if v, ok := raw["category"].(string); ok {
		p.Category = v
	}
	if v, ok := raw["brand"].(string); ok {
		p.Brand = v
	}
	delete(raw, "name")
	delete(raw, "category")
	delete(raw, "brand")
	if len(raw) > 0 {
		p.Attributes = raw
	}
	return nil
}
