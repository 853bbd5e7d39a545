package roster

// Index maps display names to roster entries. It is immutable once built and
// safe for concurrent reads.
type Index struct {
	order      []string
	normalized []string
	byName     map[string]Entry
	rows       []Entry
	byTeam     map[string][]string
}

// NewIndex builds an index from roster rows in source order. Rows without a
// name or player id are skipped. When two rows share a display name the later
// row wins the lookup while the name keeps its first position in Names.
func NewIndex(rows []Entry) *Index {
	idx := &Index{
		order:      make([]string, 0, len(rows)),
		normalized: make([]string, 0, len(rows)),
		byName:     make(map[string]Entry, len(rows)),
		rows:       make([]Entry, 0, len(rows)),
		byTeam:     make(map[string][]string),
	}
	for _, row := range rows {
		if !row.Valid() {
			continue
		}
		if _, seen := idx.byName[row.Name]; !seen {
			idx.order = append(idx.order, row.Name)
			idx.normalized = append(idx.normalized, Normalize(row.Name))
		}
		idx.byName[row.Name] = row
		idx.rows = append(idx.rows, row)
		idx.byTeam[row.TeamCode] = append(idx.byTeam[row.TeamCode], row.Name)
	}
	return idx
}

// Lookup resolves an exact display name.
func (i *Index) Lookup(name string) (Entry, bool) {
	if i == nil {
		return Entry{}, false
	}
	e, ok := i.byName[name]
	return e, ok
}

// Names returns every distinct display name in first-insertion order.
func (i *Index) Names() []string {
	if i == nil {
		return nil
	}
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}

// TeamNames returns the display names on teamCode's roster in source order.
func (i *Index) TeamNames(teamCode string) []string {
	if i == nil {
		return nil
	}
	names := i.byTeam[teamCode]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.order)
}

// Rows returns the accepted source rows, duplicates included.
func (i *Index) Rows() []Entry {
	if i == nil {
		return nil
	}
	out := make([]Entry, len(i.rows))
	copy(out, i.rows)
	return out
}
