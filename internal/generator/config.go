package generator

// Config drives the synthetic reaction network generator.
type Config struct {
	NumCompounds int
	NumReactions int
	NumEnzymes   int
	// NumCofactors leading compounds are ubiquitous: they join many reactions
	// and are written to the ignored set.
	NumCofactors   int
	CofactorChance float64
	// MaxSideSize bounds the distinct compounds on each side of a reaction.
	MaxSideSize int
	// IgnoredReactionChance marks reactions that must not link to others.
	IgnoredReactionChance float64
	Seed                  int64
}

// DefaultConfig returns a network big enough to exercise search bounds.
func DefaultConfig() Config {
	return Config{
		NumCompounds:          2000,
		NumReactions:          5000,
		NumEnzymes:            800,
		NumCofactors:          12,
		CofactorChance:        0.4,
		MaxSideSize:           3,
		IgnoredReactionChance: 0.01,
		Seed:                  42,
	}
}
