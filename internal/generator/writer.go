package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/rxnpath/internal/domain"
	"github.com/vanshika/rxnpath/internal/refdata"
)

// ManifestFile records how a synthetic bundle was produced.
const ManifestFile = "datagen_manifest.json"

// Manifest is written next to a generated bundle.
type Manifest struct {
	Seed      int64 `json:"seed"`
	Compounds int   `json:"compounds"`
	Reactions int   `json:"reactions"`
	Enzymes   int   `json:"enzymes"`
	Cofactors int   `json:"cofactors"`
}

// WriteBundle serializes ref as a reference bundle under dir, plus a
// manifest describing cfg.
func WriteBundle(ref *domain.ReferenceData, cfg Config, dir string) error {
	if err := refdata.Write(dir, ref); err != nil {
		return err
	}
	manifest := Manifest{
		Seed:      cfg.Seed,
		Compounds: len(ref.Compounds),
		Reactions: len(ref.Reactions),
		Enzymes:   len(ref.Enzymes),
		Cofactors: len(ref.IgnoredCompounds),
	}
	return writeJSON(filepath.Join(dir, ManifestFile), manifest)
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
