// Package records owns the fragile text-to-structure boundary: turning the
// extraction model's raw reply into typed records.
package records

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
)

// Parse decodes the raw extraction reply into a record list. Models that
// were asked for JSON sometimes emit Python-style single quotes, so single
// quotes are normalized to double quotes before decoding. Any decode failure
// is returned as ErrRecordParse; callers degrade it to an empty list.
//
// No catalog validation happens here. Unknown category or product names pass
// through and are dropped during retrieval.
func Parse(raw string) ([]contractx.Record, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty response", contractx.ErrRecordParse)
	}

	normalized := strings.ReplaceAll(trimmed, "'", `"`)

	var out []contractx.Record
	if err := json.Unmarshal([]byte(normalized), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrRecordParse, err)
	}
	return out, nil
}
