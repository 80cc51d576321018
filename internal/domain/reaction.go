package domain

// Reaction is a biochemical transformation identified by its Rhea ID.
// Substrates and Products map compound IDs to stoichiometric coefficients.
type Reaction struct {
	ID         string
	Substrates map[string]int
	Products   map[string]int
	Enzymes    []string
	Complexity float64
	Equation   string
}

// SubstrateSet returns the distinct substrate compound IDs.
func (r Reaction) SubstrateSet() IDSet {
	return keySet(r.Substrates)
}

// ProductSet returns the distinct product compound IDs.
func (r Reaction) ProductSet() IDSet {
	return keySet(r.Products)
}

// Compound is a chemical species identified by its ChEBI ID.
type Compound struct {
	ID     string
	Name   string
	Price  float64
	Demand float64
}

// Value is the price weighted by demand.
func (c Compound) Value() float64 {
	return c.Price * c.Demand
}

// Enzyme is a catalyst identified by its EC number.
type Enzyme struct {
	ID   string
	Name string
}

// CompoundReactions lists the reactions consuming and producing a compound.
type CompoundReactions struct {
	Consumers []string
	Producers []string
}

func keySet(m map[string]int) IDSet {
	set := make(IDSet, len(m))
	for id := range m {
		set[id] = struct{}{}
	}
	return set
}
