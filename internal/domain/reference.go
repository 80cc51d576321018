package domain

// ReferenceData is the read-only bundle a search runs against. It is built
// once by a loader and shared by every search; nothing mutates it afterwards.
type ReferenceData struct {
	Reactions         map[string]Reaction
	Compounds         map[string]Compound
	Enzymes           map[string]Enzyme
	CompoundReactions map[string]CompoundReactions
	EnzymeReactions   map[string][]string
	IgnoredCompounds  IDSet
	IgnoredReactions  IDSet
}

// Reaction looks up a reaction by ID.
func (d *ReferenceData) Reaction(id string) (Reaction, bool) {
	r, ok := d.Reactions[id]
	return r, ok
}

// Compound looks up a compound by ID.
func (d *ReferenceData) Compound(id string) (Compound, bool) {
	c, ok := d.Compounds[id]
	return c, ok
}

// Enzyme looks up an enzyme by EC number.
func (d *ReferenceData) Enzyme(id string) (Enzyme, bool) {
	e, ok := d.Enzymes[id]
	return e, ok
}

// Consumers returns the reactions that take compound id as a substrate.
func (d *ReferenceData) Consumers(id string) []string {
	return d.CompoundReactions[id].Consumers
}

// Producers returns the reactions that yield compound id as a product.
func (d *ReferenceData) Producers(id string) []string {
	return d.CompoundReactions[id].Producers
}

// ReactionsForEnzyme returns the reactions catalysed by enzyme id.
func (d *ReferenceData) ReactionsForEnzyme(id string) []string {
	return d.EnzymeReactions[id]
}

// ReactionIDs returns every reaction ID in SortIDs order.
func (d *ReferenceData) ReactionIDs() []string {
	ids := make([]string, 0, len(d.Reactions))
	for id := range d.Reactions {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// Reindex rebuilds CompoundReactions and EnzymeReactions from the reaction
// table. Index slices are ordered by SortIDs. Compounds and enzymes that
// appear only in reactions get placeholder entries so lookups succeed.
func (d *ReferenceData) Reindex() {
	if d.Compounds == nil {
		d.Compounds = make(map[string]Compound)
	}
	if d.Enzymes == nil {
		d.Enzymes = make(map[string]Enzyme)
	}
	if d.IgnoredCompounds == nil {
		d.IgnoredCompounds = make(IDSet)
	}
	if d.IgnoredReactions == nil {
		d.IgnoredReactions = make(IDSet)
	}

	compounds := make(map[string]CompoundReactions)
	enzymes := make(map[string][]string)
	for _, id := range d.ReactionIDs() {
		r := d.Reactions[id]
		for _, c := range r.SubstrateSet().Sorted() {
			entry := compounds[c]
			entry.Consumers = append(entry.Consumers, id)
			compounds[c] = entry
			d.ensureCompound(c)
		}
		for _, c := range r.ProductSet().Sorted() {
			entry := compounds[c]
			entry.Producers = append(entry.Producers, id)
			compounds[c] = entry
			d.ensureCompound(c)
		}
		for _, ec := range NewIDSet(r.Enzymes...).Sorted() {
			enzymes[ec] = append(enzymes[ec], id)
			if _, ok := d.Enzymes[ec]; !ok {
				d.Enzymes[ec] = Enzyme{ID: ec}
			}
		}
	}
	d.CompoundReactions = compounds
	d.EnzymeReactions = enzymes
}

func (d *ReferenceData) ensureCompound(id string) {
	if _, ok := d.Compounds[id]; !ok {
		d.Compounds[id] = Compound{ID: id}
	}
}
