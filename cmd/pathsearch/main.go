package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/rxnpath/internal/bootstrap"
	"github.com/vanshika/rxnpath/internal/config"
	"github.com/vanshika/rxnpath/internal/logging"
	"github.com/vanshika/rxnpath/internal/refdata"
	"github.com/vanshika/rxnpath/internal/service"
)

type globalOptions struct {
	dataDir string
	asJSON  bool
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pathsearch: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "pathsearch",
		Short:         "Search reaction pathways offline against a reference bundle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.dataDir, "data", "./data", "reference bundle directory")
	root.PersistentFlags().BoolVar(&g.asJSON, "json", false, "print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log search progress to stderr")

	root.AddCommand(newSearchCmd(g), newReactionCmd(g), newCompoundsCmd(g))
	return root
}

func newSearchCmd(g *globalOptions) *cobra.Command {
	var (
		req      service.SearchRequest
		workers  int
		timeout  time.Duration
		noBounds bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank pathways through a compound chain and/or enzymes",
		Example: `  pathsearch search --compounds 15903,any --enzymes 2.7.1.1 -n 10
  pathsearch search --compounds 15903,16236 --forbid 57540`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default().Search
			cfg.Workers = workers
			cfg.Timeout = timeout
			cfg.BoundsEnabled = !noBounds

			svc, err := loadService(g, bootstrap.SearchConfig(cfg), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			resp, err := svc.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			if g.asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return writeSearchTable(cmd.OutOrStdout(), resp)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&req.Compounds, "compounds", nil, "ordered compound chain; use \"any\" for an open start or goal")
	f.StringSliceVar(&req.Enzymes, "enzymes", nil, "EC numbers every pathway must use")
	f.StringSliceVar(&req.ForbiddenLinks, "forbid", nil, "compounds that must not link consecutive reactions")
	f.IntVarP(&req.MaxResults, "max-results", "n", 0, "number of pathways to return (default 5, at most 20)")
	f.IntVar(&workers, "workers", 4, "source/target pairs searched in parallel")
	f.DurationVar(&timeout, "timeout", 30*time.Second, "search deadline")
	f.BoolVar(&noBounds, "exhaustive", false, "disable search-space bounds")
	return cmd
}

func newReactionCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reaction <rhea-id>",
		Short: "Show one reaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(g, service.DefaultSearchConfig(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			r, err := svc.Reaction(args[0])
			if err != nil {
				return err
			}
			if g.asJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "RHEA:%s  %s\ncomplexity %.2f  enzymes %s\n",
				r.ID, r.Equation, r.Complexity, strings.Join(r.Enzymes, ", "))
			return nil
		},
	}
}

func newCompoundsCmd(g *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "compounds <query>",
		Short: "Find compounds by name or ChEBI ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(g, service.DefaultSearchConfig(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := svc.FindCompounds(args[0], limit)
			if err != nil {
				return err
			}
			if g.asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHEBI\tNAME\tPRICE\tDEMAND")
			for _, c := range res.Items {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\n", c.ID, c.Name, c.Price, c.Demand)
			}
			fmt.Fprintf(tw, "\n%d of %d matches\n", len(res.Items), res.Total)
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum matches to print")
	return cmd
}

func loadService(g *globalOptions, cfg service.SearchConfig, stderr io.Writer) (*service.SearchService, error) {
	level := "error"
	if g.verbose {
		level = "debug"
	}
	logger := logging.NewWithWriter(config.LoggingConfig{Level: level}, stderr)

	ref, err := refdata.Load(g.dataDir)
	if err != nil {
		return nil, fmt.Errorf("load bundle %s: %w", g.dataDir, err)
	}
	snaps := service.NewSnapshots(logger)
	snaps.Load(ref)
	return service.NewSearchService(snaps, cfg).WithLogger(logger), nil
}

func writeSearchTable(w io.Writer, resp service.SearchResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tREACTIONS\tTOTAL EQUATION")
	for _, r := range resp.Results {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", r.Rank, r.Score, strings.Join(r.Reactions, " -> "), r.Summary.TotalEquation)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d pathways from %d candidates over %d source/target pairs in %s\n",
		len(resp.Results), resp.Stats.Candidates, resp.Stats.Pairs, resp.Duration.Round(time.Millisecond))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
