package shortage

import (
	"context"
	"log/slog"
	"strings"
)

// Matcher resolves recipe ingredient names to inventory records. Resolution
// is exact match first, then the persisted alias table, then a best-effort
// substring match. First hit wins; a nil result means zero availability,
// not a failure.
type Matcher struct {
	mappings MappingRepository
	log      *slog.Logger
}

// NewMatcher creates a matcher. The mapping repository may be nil when the
// alias table is not provisioned.
func NewMatcher(mappings MappingRepository, log *slog.Logger) *Matcher {
	if log == nil {
		log = slog.Default()
	}
	return &Matcher{mappings: mappings, log: log}
}

// Match finds the inventory record for an ingredient name, or nil.
func (m *Matcher) Match(ctx context.Context, ingredientName string, snapshot *Snapshot) *StockRecord {
	want := canonicalName(ingredientName)
	if want == "" {
		return nil
	}

	if rec := exactMatch(want, snapshot); rec != nil {
		return rec
	}

	if m.mappings != nil {
		mapped, ok, err := m.mappings.InventoryName(ctx, want)
		if err != nil {
			// The alias store is optional; a broken or missing table falls
			// through to fuzzy matching rather than failing the check.
			m.log.Warn("ingredient alias lookup failed, falling back to fuzzy match",
				"ingredient", ingredientName, "error", err)
		} else if ok {
			if rec := exactMatch(canonicalName(mapped), snapshot); rec != nil {
				return rec
			}
		}
	}

	for i := range snapshot.Records {
		have := canonicalName(snapshot.Records[i].Item)
		if have == "" {
			continue
		}
		if strings.Contains(want, have) || strings.Contains(have, want) {
			return &snapshot.Records[i]
		}
	}
	return nil
}

func exactMatch(want string, snapshot *Snapshot) *StockRecord {
	for i := range snapshot.Records {
		if canonicalName(snapshot.Records[i].Item) == want {
			return &snapshot.Records[i]
		}
	}
	return nil
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
