package plan

import "sort"

// CatalogEntry is one canonical nursing-care category. The catalog is
// configuration, not user data: every plan exposes every catalog key.
type CatalogEntry struct {
	ItemKey   string
	Label     string
	SortOrder int
}

// Catalog is the ordered canonical item catalog.
type Catalog []CatalogEntry

// DefaultCatalog returns the canonical catalog for the psychiatric
// home-nursing plan form.
func DefaultCatalog() Catalog {
	return Catalog{
		{ItemKey: "LONG_TERM", Label: "看護の目標", SortOrder: 1},
		{ItemKey: "SHORT_TERM", Label: "短期目標", SortOrder: 2},
		{ItemKey: "POLICY", Label: "看護援助の方針", SortOrder: 3},
		{ItemKey: "SPECIFIC_CONTENT", Label: "具体的な援助内容", SortOrder: 4},
		{ItemKey: "LIFE_RHYTHM", Label: "生活リズム", SortOrder: 5},
	}
}

// Merge reconciles persisted items with the catalog and returns a complete
// ordered item set: every catalog key appears exactly once, persisted values
// override catalog defaults, and iteration order follows SortOrder ascending
// with ties broken by catalog order. Persisted items whose key is not in the
// catalog are kept after the canonical entries at their stored sort order.
// Pure function: the inputs are not modified.
func (c Catalog) Merge(persisted []PlanItem) []PlanItem {
	byKey := make(map[string]PlanItem, len(persisted))
	for _, it := range persisted {
		if it.ItemKey == "" {
			continue
		}
		byKey[it.ItemKey] = it
	}

	type ordered struct {
		item PlanItem
		tie  int
	}
	out := make([]ordered, 0, len(c)+len(persisted))

	seen := make(map[string]bool, len(c))
	for i, entry := range c {
		seen[entry.ItemKey] = true
		if it, ok := byKey[entry.ItemKey]; ok {
			if it.Label == "" {
				it.Label = entry.Label
			}
			out = append(out, ordered{item: it, tie: i})
			continue
		}
		out = append(out, ordered{
			item: PlanItem{ItemKey: entry.ItemKey, Label: entry.Label, SortOrder: entry.SortOrder},
			tie:  i,
		})
	}

	extra := len(c)
	for _, it := range persisted {
		if it.ItemKey == "" || seen[it.ItemKey] {
			continue
		}
		seen[it.ItemKey] = true
		out = append(out, ordered{item: it, tie: extra})
		extra++
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].item.SortOrder != out[j].item.SortOrder {
			return out[i].item.SortOrder < out[j].item.SortOrder
		}
		return out[i].tie < out[j].tie
	})

	items := make([]PlanItem, len(out))
	for i, o := range out {
		items[i] = o.item
	}
	return items
}

// Seed returns a fresh item set for a new plan, one item per catalog entry.
func (c Catalog) Seed() []PlanItem {
	items := make([]PlanItem, len(c))
	for i, entry := range c {
		items[i] = PlanItem{ItemKey: entry.ItemKey, Label: entry.Label, SortOrder: entry.SortOrder}
	}
	return items
}
