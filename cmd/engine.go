package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/maison/internal/app"
	model "github.com/okian/maison/internal/domain/model"
	"github.com/okian/maison/pkg/logger"
)

// Engine subcommands read records from JSON files ("-" is stdin) and print
// JSON to stdout. They never start the recompute pipeline.

func newEngine(c *cli) (*service.Service, error) {
	return service.New(
		service.WithConfig(c.cfg),
		service.WithLogger(logger.Get().Named("engine")),
	)
}

func newScoreCmd(c *cli) *cobra.Command {
	var talentPath, oppPath string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one talent against one opportunity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := readTalent(cmd, talentPath)
			if err != nil {
				return err
			}
			raw, err := readObject(cmd, oppPath)
			if err != nil {
				return err
			}
			o, err := model.DecodeOpportunity(raw)
			if err != nil {
				return err
			}
			svc, err := newEngine(c)
			if err != nil {
				return err
			}
			m, err := svc.ScoreMatch(cmd.Context(), t, o)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().StringVar(&talentPath, "talent", "", "talent JSON file")
	cmd.Flags().StringVar(&oppPath, "opportunity", "", "opportunity JSON file")
	_ = cmd.MarkFlagRequired("talent")
	_ = cmd.MarkFlagRequired("opportunity")
	return cmd
}

func newRankCmd(c *cli) *cobra.Command {
	var (
		talentPath, oppsPath string
		limit, minScore      int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank active opportunities for a talent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := readTalent(cmd, talentPath)
			if err != nil {
				return err
			}
			var raws []map[string]any
			if err := readJSON(cmd, oppsPath, &raws); err != nil {
				return err
			}
			opps := make([]model.Opportunity, 0, len(raws))
			for _, raw := range raws {
				o, err := model.DecodeOpportunity(raw)
				if err != nil {
					return err
				}
				opps = append(opps, o)
			}
			svc, err := newEngine(c)
			if err != nil {
				return err
			}
			matches, err := svc.RankMatches(cmd.Context(), t, opps, limit, minScore)
			if err != nil {
				return err
			}
			if matches == nil {
				matches = []model.Match{}
			}
			return writeOutput(cmd.OutOrStdout(), matches)
		},
	}
	cmd.Flags().StringVar(&talentPath, "talent", "", "talent JSON file")
	cmd.Flags().StringVar(&oppsPath, "opportunities", "", "JSON file holding an array of opportunities")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of matches (0 returns all, capped at max_match_limit)")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "drop matches scoring below this value")
	_ = cmd.MarkFlagRequired("talent")
	_ = cmd.MarkFlagRequired("opportunities")
	return cmd
}

func newAlignCmd(c *cli) *cobra.Command {
	var expectedPath, budgetPath string
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Classify expected compensation against a budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			expected, err := readRange(cmd, "expected", expectedPath)
			if err != nil {
				return err
			}
			budget, err := readRange(cmd, "budget", budgetPath)
			if err != nil {
				return err
			}
			svc, err := newEngine(c)
			if err != nil {
				return err
			}
			a, err := svc.AlignCompensation(cmd.Context(), expected, budget)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), map[string]model.Alignment{"alignment": a})
		},
	}
	cmd.Flags().StringVar(&expectedPath, "expected", "", "expected compensation JSON file (optional)")
	cmd.Flags().StringVar(&budgetPath, "budget", "", "budget JSON file (optional)")
	return cmd
}

func newRecommendCmd(c *cli) *cobra.Command {
	var talentPath, progressPath string
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend learning modules for a talent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := readTalent(cmd, talentPath)
			if err != nil {
				return err
			}
			var progress []model.Progress
			if progressPath != "" {
				var raws []map[string]any
				if err := readJSON(cmd, progressPath, &raws); err != nil {
					return err
				}
				for _, raw := range raws {
					p, err := model.DecodeProgress(raw)
					if err != nil {
						return err
					}
					progress = append(progress, p)
				}
			}
			svc, err := newEngine(c)
			if err != nil {
				return err
			}
			recs, err := svc.RecommendModules(cmd.Context(), t, progress)
			if err != nil {
				return err
			}
			if recs == nil {
				recs = []model.Recommendation{}
			}
			return writeOutput(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().StringVar(&talentPath, "talent", "", "talent JSON file")
	cmd.Flags().StringVar(&progressPath, "progress", "", "JSON file holding an array of progress rows (optional)")
	_ = cmd.MarkFlagRequired("talent")
	return cmd
}

func newCatalogCmd(c *cli) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the learning module catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newEngine(c)
			if err != nil {
				return err
			}
			modules := svc.Catalog().Modules()
			if category != "" {
				modules = svc.Catalog().ByCategory(model.Category(category))
			}
			if modules == nil {
				modules = []model.LearningModule{}
			}
			return writeOutput(cmd.OutOrStdout(), modules)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list modules of this category")
	return cmd
}

func readTalent(cmd *cobra.Command, path string) (model.Talent, error) {
	raw, err := readObject(cmd, path)
	if err != nil {
		return model.Talent{}, err
	}
	return model.DecodeTalent(raw)
}

func readRange(cmd *cobra.Command, field, path string) (*model.CompensationRange, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := readObject(cmd, path)
	if err != nil {
		return nil, err
	}
	return model.DecodeRange(field, raw)
}

func readObject(cmd *cobra.Command, path string) (map[string]any, error) {
	var raw map[string]any
	if err := readJSON(cmd, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func readJSON(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
