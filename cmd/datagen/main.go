package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/rxnpath/internal/generator"
	"github.com/vanshika/rxnpath/internal/refdata"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		outputDir   string
		writeStdout bool
	)

	cmd := &cobra.Command{
		Use:           "rxnpath-datagen",
		Short:         "Generate a synthetic reaction network bundle",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			gen := generator.New(cfg)
			ref, err := gen.Generate(ctx)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if writeStdout {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(ref)
			}
			if err := generator.WriteBundle(ref, gen.Config(), outputDir); err != nil {
				return fmt.Errorf("write bundle: %w", err)
			}
			if _, err := refdata.Load(outputDir); err != nil {
				return fmt.Errorf("written bundle does not load: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d compounds, %d reactions and %d enzymes into %s (seed %d)\n",
				len(ref.Compounds), len(ref.Reactions), len(ref.Enzymes), outputDir, gen.Config().Seed)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.NumCompounds, "compounds", cfg.NumCompounds, "number of compounds to generate")
	f.IntVar(&cfg.NumReactions, "reactions", cfg.NumReactions, "number of reactions to generate")
	f.IntVar(&cfg.NumEnzymes, "enzymes", cfg.NumEnzymes, "number of enzymes to generate")
	f.IntVar(&cfg.NumCofactors, "cofactors", cfg.NumCofactors, "number of ubiquitous compounds written to the ignored set")
	f.Float64Var(&cfg.CofactorChance, "cofactor-chance", cfg.CofactorChance, "probability that a reaction side includes a cofactor")
	f.IntVar(&cfg.MaxSideSize, "max-side", cfg.MaxSideSize, "maximum distinct compounds per reaction side")
	f.Float64Var(&cfg.IgnoredReactionChance, "ignored-reaction-chance", cfg.IgnoredReactionChance, "probability that a reaction is excluded from linking")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for deterministic generation; 0 picks one")
	f.StringVar(&outputDir, "output-dir", "data", "directory to write the bundle into")
	f.BoolVar(&writeStdout, "stdout", false, "write the network as JSON to stdout instead of a bundle")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "datagen failed: %v\n", err)
		os.Exit(1)
	}
}
