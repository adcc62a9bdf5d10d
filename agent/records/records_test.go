package records

import (
	"errors"
	"testing"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
)

func TestParseWellFormedList(t *testing.T) {
	t.Parallel()

	raw := `[{"category": "Computers and Laptops"}, {"products": ["TechPro Ultrabook", "BlueWave Gaming Laptop"]}]`
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if !got[0].IsCategory() || got[0].Category != "Computers and Laptops" {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if !got[1].IsProductGroup() || len(got[1].Products) != 2 {
		t.Fatalf("unexpected second record: %+v", got[1])
	}
}

func TestParseNormalizesSingleQuotes(t *testing.T) {
	t.Parallel()

	raw := `[{'category': 'Televisions and Home Theater Systems'}, {'products': ['CineView 4K TV']}]`
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[1].Products[0] != "CineView 4K TV" {
		t.Fatalf("unexpected product: %q", got[1].Products[0])
	}
}

func TestParseEmptyList(t *testing.T) {
	t.Parallel()

	got, err := Parse("[]")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"   ",
		"Sure! Here are the products you asked about.",
		`[{"category": }]`,
	} {
		if _, err := Parse(raw); !errors.Is(err, contractx.ErrRecordParse) {
			t.Fatalf("Parse(%q) expected ErrRecordParse, got %v", raw, err)
		}
	}
}
