// Package refdata reads and writes the reference bundle: a directory of JSON
// files keyed by Rhea ID, ChEBI ID and EC number.
package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vanshika/rxnpath/internal/domain"
)

// Bundle file names.
const (
	FileStoichiometrics = "rxn_stoichiometrics.json"
	FileComplexities    = "rxn_complexities.json"
	FileReactionECs     = "rxn_ecs.json"
	FileEquations       = "rxn_equations.json"
	FileIgnoredRxns     = "rxn_ignored.json"
	FileCompoundNames   = "mol_names.json"
	FileDemands         = "mol_demands.json"
	FilePrices          = "mol_prices.json"
	FileCompoundRxns    = "mol_reactions.json"
	FileIgnoredMols     = "mol_ignored.json"
	FileEnzymeNames     = "enz_names.json"
	FileEnzymeRxns      = "enz_reactions.json"
)

// ErrMissingFile is returned when a required bundle file is absent.
var ErrMissingFile = errors.New("bundle file missing")

// stoichiometry is [substrates, products], each a compound -> coefficient map.
type stoichiometry [2]map[string]int

type bundle struct {
	Stoichiometrics map[string]stoichiometry
	Complexities    map[string]float64
	ReactionECs     map[string][]string
	Equations       map[string]string
	IgnoredRxns     []string
	CompoundNames   map[string]string
	Demands         map[string]float64
	Prices          map[string]float64
	IgnoredMols     []string
	EnzymeNames     map[string]string
}

// Load reads the bundle in dir. Only the stoichiometry file is required.
// Without mol_ignored.json the default ubiquitous compound set applies.
// The consumer/producer and enzyme indexes are rebuilt from stoichiometry,
// so mol_reactions.json and enz_reactions.json are not read.
func Load(dir string) (*domain.ReferenceData, error) {
	var b bundle
	if err := loadJSON(dir, FileStoichiometrics, true, &b.Stoichiometrics); err != nil {
		return nil, err
	}

	optional := []struct {
		name   string
		target any
	}{
		{FileComplexities, &b.Complexities},
		{FileReactionECs, &b.ReactionECs},
		{FileEquations, &b.Equations},
		{FileIgnoredRxns, &b.IgnoredRxns},
		{FileCompoundNames, &b.CompoundNames},
		{FileDemands, &b.Demands},
		{FilePrices, &b.Prices},
		{FileEnzymeNames, &b.EnzymeNames},
	}
	for _, f := range optional {
		if err := loadJSON(dir, f.name, false, f.target); err != nil {
			return nil, err
		}
	}

	ignoredMols := domain.DefaultIgnoredCompounds()
	if ok, err := exists(dir, FileIgnoredMols); err != nil {
		return nil, err
	} else if ok {
		if err := loadJSON(dir, FileIgnoredMols, true, &b.IgnoredMols); err != nil {
			return nil, err
		}
		ignoredMols = domain.NewIDSet(b.IgnoredMols...)
	}

	return b.reference(ignoredMols), nil
}

func (b bundle) reference(ignored domain.IDSet) *domain.ReferenceData {
	ref := &domain.ReferenceData{
		Reactions:        make(map[string]domain.Reaction, len(b.Stoichiometrics)),
		Compounds:        make(map[string]domain.Compound),
		Enzymes:          make(map[string]domain.Enzyme, len(b.EnzymeNames)),
		IgnoredCompounds: ignored,
		IgnoredReactions: domain.NewIDSet(b.IgnoredRxns...),
	}
	for id, st := range b.Stoichiometrics {
		ref.Reactions[id] = domain.Reaction{
			ID:         id,
			Substrates: nonNil(st[0]),
			Products:   nonNil(st[1]),
			Enzymes:    b.ReactionECs[id],
			Complexity: b.Complexities[id],
			Equation:   b.Equations[id],
		}
	}

	compoundIDs := domain.NewIDSet()
	for id := range b.CompoundNames {
		compoundIDs.Add(id)
	}
	for _, m := range []map[string]float64{b.Prices, b.Demands} {
		for id := range m {
			compoundIDs.Add(id)
		}
	}
	for id := range compoundIDs {
		ref.Compounds[id] = domain.Compound{
			ID:     id,
			Name:   b.CompoundNames[id],
			Price:  b.Prices[id],
			Demand: b.Demands[id],
		}
	}
	for ec, name := range b.EnzymeNames {
		ref.Enzymes[ec] = domain.Enzyme{ID: ec, Name: name}
	}

	ref.Reindex()
	return ref
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func exists(dir, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(dir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
}

func loadJSON(dir, name string, required bool, target any) error {
	path := filepath.Join(dir, name)
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
