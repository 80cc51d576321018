package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/rxnpath/internal/domain"
)

// Generator produces synthetic reference data shaped like a curated
// reaction database: numeric ChEBI-style compound IDs, numeric Rhea-style
// reaction IDs and four-part EC numbers.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumCompounds <= 0 {
		cfg.NumCompounds = def.NumCompounds
	}
	if cfg.NumReactions <= 0 {
		cfg.NumReactions = def.NumReactions
	}
	if cfg.NumEnzymes < 0 {
		cfg.NumEnzymes = 0
	}
	if cfg.MaxSideSize <= 0 {
		cfg.MaxSideSize = def.MaxSideSize
	}
	if cfg.NumCofactors < 0 || cfg.NumCofactors >= cfg.NumCompounds {
		cfg.NumCofactors = 0
	}
	cfg.CofactorChance = clampProbability(cfg.CofactorChance)
	cfg.IgnoredReactionChance = clampProbability(cfg.IgnoredReactionChance)
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Config returns the effective configuration after defaults were applied.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate synthesises a reaction network. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{
		Reactions:        make(map[string]domain.Reaction, g.cfg.NumReactions),
		Compounds:        make(map[string]domain.Compound, g.cfg.NumCompounds),
		Enzymes:          make(map[string]domain.Enzyme, g.cfg.NumEnzymes),
		IgnoredCompounds: domain.NewIDSet(),
		IgnoredReactions: domain.NewIDSet(),
	}

	compoundIDs := make([]string, g.cfg.NumCompounds)
	for i := range compoundIDs {
		id := strconv.Itoa(10000 + i)
		compoundIDs[i] = id
		ref.Compounds[id] = domain.Compound{
			ID:     id,
			Name:   g.compoundName(i),
			Price:  math.Round(g.rand.ExpFloat64()*1000) / 100,
			Demand: math.Round(g.rand.Float64()*100) / 10,
		}
		if i < g.cfg.NumCofactors {
			ref.IgnoredCompounds.Add(id)
		}
	}
	cofactors := compoundIDs[:g.cfg.NumCofactors]
	regular := compoundIDs[g.cfg.NumCofactors:]

	enzymeIDs := make([]string, g.cfg.NumEnzymes)
	for i := range enzymeIDs {
		ec := fmt.Sprintf("%d.%d.%d.%d", 1+g.rand.Intn(7), 1+g.rand.Intn(20), 1+g.rand.Intn(30), i+1)
		enzymeIDs[i] = ec
		ref.Enzymes[ec] = domain.Enzyme{ID: ec, Name: fmt.Sprintf("synthetic enzyme %d", i+1)}
	}

	for i := 0; i < g.cfg.NumReactions; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := strconv.Itoa(10000 + 4*i)
		substrates := g.side(regular, cofactors)
		products := g.side(regular, cofactors)
		for c := range products {
			delete(substrates, c)
		}
		if len(substrates) == 0 {
			substrates[regular[g.rand.Intn(len(regular))]] = 1
			for c := range substrates {
				delete(products, c)
			}
		}
		if len(products) == 0 {
			products[g.pickOther(regular, substrates)] = 1
		}

		rxn := domain.Reaction{
			ID:         id,
			Substrates: substrates,
			Products:   products,
			Enzymes:    g.enzymes(enzymeIDs),
			Complexity: math.Round(g.rand.Float64()*100) / 100,
		}
		rxn.Equation = equation(rxn, ref.Compounds)
		ref.Reactions[id] = rxn

		if g.rand.Float64() < g.cfg.IgnoredReactionChance {
			ref.IgnoredReactions.Add(id)
		}
	}

	ref.Reindex()
	return ref, nil
}

// side draws one side of a reaction: 1..MaxSideSize regular compounds plus,
// with CofactorChance, one cofactor.
func (g *Generator) side(regular, cofactors []string) map[string]int {
	n := 1 + g.rand.Intn(g.cfg.MaxSideSize)
	out := make(map[string]int, n+1)
	for len(out) < n && len(out) < len(regular) {
		out[regular[g.rand.Intn(len(regular))]] = 1 + g.coefficientBump()
	}
	if len(cofactors) > 0 && g.rand.Float64() < g.cfg.CofactorChance {
		out[cofactors[g.rand.Intn(len(cofactors))]] = 1
	}
	return out
}

func (g *Generator) coefficientBump() int {
	if g.rand.Float64() < 0.1 {
		return 1
	}
	return 0
}

func (g *Generator) pickOther(ids []string, taken map[string]int) string {
	for {
		id := ids[g.rand.Intn(len(ids))]
		if _, ok := taken[id]; !ok || len(ids) == 1 {
			return id
		}
	}
}

func (g *Generator) enzymes(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	n := g.rand.Intn(3)
	if n == 0 {
		return nil
	}
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n && len(out) < len(ids) {
		ec := ids[g.rand.Intn(len(ids))]
		if _, ok := seen[ec]; ok {
			continue
		}
		seen[ec] = struct{}{}
		out = append(out, ec)
	}
	sort.Strings(out)
	return out
}

var nameStems = []string{"acet", "glyc", "pyruv", "succin", "malon", "citr", "fumar", "lact", "ribul", "xylul", "gluc", "fruct"}
var nameSuffixes = []string{"ate", "ol", "one", "ose", "amide", "ic acid"}

func (g *Generator) compoundName(i int) string {
	stem := nameStems[g.rand.Intn(len(nameStems))]
	suffix := nameSuffixes[g.rand.Intn(len(nameSuffixes))]
	return fmt.Sprintf("%s%s-%d", stem, suffix, i)
}

func equation(r domain.Reaction, compounds map[string]domain.Compound) string {
	return sideString(r.Substrates, compounds) + " = " + sideString(r.Products, compounds)
}

func sideString(side map[string]int, compounds map[string]domain.Compound) string {
	ids := make([]string, 0, len(side))
	for id := range side {
		ids = append(ids, id)
	}
	domain.SortIDs(ids)

	terms := make([]string, 0, len(ids))
	for _, id := range ids {
		term := compounds[id].Name
		if n := side[id]; n > 1 {
			term = strconv.Itoa(n) + " " + term
		}
		terms = append(terms, term)
	}
	return strings.Join(terms, " + ")
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
