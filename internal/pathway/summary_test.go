package pathway

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/domain/domaintest"
)

func TestSummarize(t *testing.T) {
	ref := domaintest.SixReactions()

	got := Summarize(domain.Pathway{"1", "4"}, ref)

	assert.Equal(t, []domain.CompoundCount{
		{CompoundID: "1", Consumed: 1},
		{CompoundID: "2", Consumed: 1},
	}, got.Substrates)
	assert.Equal(t, []domain.CompoundCount{
		{CompoundID: "3", Consumed: 1, Produced: 1},
		{CompoundID: "4", Consumed: 1, Produced: 1},
	}, got.Intermediates)
	assert.Equal(t, []domain.CompoundCount{
		{CompoundID: "5", Produced: 1},
		{CompoundID: "6", Produced: 1},
	}, got.Products)
	assert.Equal(t, "C1 + C2 => C5 + C6", got.TotalEquation)
}

func TestSummarize_SumsCoefficientsAndFallsBackToIDs(t *testing.T) {
	ref := &domain.ReferenceData{
		Reactions: map[string]domain.Reaction{
			"10": {ID: "10", Substrates: map[string]int{"a": 2}, Products: map[string]int{"b": 1}},
			"11": {ID: "11", Substrates: map[string]int{"b": 1}, Products: map[string]int{"c": 3}},
		},
		Compounds: map[string]domain.Compound{"a": {ID: "a", Name: "alpha"}},
	}

	got := Summarize(domain.Pathway{"10", "11"}, ref)

	assert.Equal(t, []domain.CompoundCount{{CompoundID: "a", Consumed: 2}}, got.Substrates)
	assert.Equal(t, []domain.CompoundCount{{CompoundID: "b", Consumed: 1, Produced: 1}}, got.Intermediates)
	assert.Equal(t, []domain.CompoundCount{{CompoundID: "c", Produced: 3}}, got.Products)
	assert.Equal(t, "alpha => c", got.TotalEquation)
}
