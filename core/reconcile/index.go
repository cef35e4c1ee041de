package reconcile

// Index maps a SKU to every variant carrying it, in catalog order.
type Index map[string][]Variant

// BuildIndex indexes the snapshot by exact SKU. Variants without a SKU are not indexed.
// Duplicate SKUs are kept so that each variant is reconciled independently.
func BuildIndex(s *Snapshot) Index {
	idx := make(Index)
	if s == nil {
		return idx
	}
	for _, p := range s.Products {
		for _, v := range p.Variants {
			if v.SKU == "" {
				continue
			}
			idx[v.SKU] = append(idx[v.SKU], v)
		}
	}
	return idx
}

// Lookup returns the variants for sku, or nil when it is not in the catalog.
func (idx Index) Lookup(sku string) []Variant {
	return idx[sku]
}
