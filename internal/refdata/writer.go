package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/rxnpath/internal/domain"
)

// Write serializes ref into dir as a bundle Load can read back. The derived
// mol_reactions.json and enz_reactions.json indexes are written too so the
// directory stays usable by tools that expect them.
func Write(dir string, ref *domain.ReferenceData) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}

	stoich := make(map[string]stoichiometry, len(ref.Reactions))
	complexities := make(map[string]float64, len(ref.Reactions))
	ecs := make(map[string][]string, len(ref.Reactions))
	equations := make(map[string]string, len(ref.Reactions))
	for id, r := range ref.Reactions {
		stoich[id] = stoichiometry{nonNil(r.Substrates), nonNil(r.Products)}
		complexities[id] = r.Complexity
		if len(r.Enzymes) > 0 {
			ecs[id] = r.Enzymes
		}
		if r.Equation != "" {
			equations[id] = r.Equation
		}
	}

	names := make(map[string]string, len(ref.Compounds))
	prices := make(map[string]float64, len(ref.Compounds))
	demands := make(map[string]float64, len(ref.Compounds))
	for id, c := range ref.Compounds {
		if c.Name != "" {
			names[id] = c.Name
		}
		if c.Price != 0 {
			prices[id] = c.Price
		}
		if c.Demand != 0 {
			demands[id] = c.Demand
		}
	}

	compoundRxns := make(map[string][2][]string, len(ref.CompoundReactions))
	for id, cr := range ref.CompoundReactions {
		compoundRxns[id] = [2][]string{emptyIfNil(cr.Consumers), emptyIfNil(cr.Producers)}
	}

	enzymeNames := make(map[string]string, len(ref.Enzymes))
	for ec, e := range ref.Enzymes {
		enzymeNames[ec] = e.Name
	}

	files := []struct {
		name string
		data any
	}{
		{FileStoichiometrics, stoich},
		{FileComplexities, complexities},
		{FileReactionECs, ecs},
		{FileEquations, equations},
		{FileIgnoredRxns, ref.IgnoredReactions.Sorted()},
		{FileCompoundNames, names},
		{FileDemands, demands},
		{FilePrices, prices},
		{FileCompoundRxns, compoundRxns},
		{FileIgnoredMols, ref.IgnoredCompounds.Sorted()},
		{FileEnzymeNames, enzymeNames},
		{FileEnzymeRxns, ref.EnzymeReactions},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.data); err != nil {
			return err
		}
	}
	return nil
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
