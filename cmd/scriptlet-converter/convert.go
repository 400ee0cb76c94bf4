package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/scriptlet-converter/internal/converter"
	"github.com/bnema/scriptlet-converter/internal/fetcher"
	"github.com/bnema/scriptlet-converter/internal/logging"
	"github.com/bnema/scriptlet-converter/internal/models"
	"github.com/bnema/scriptlet-converter/internal/parser"
	"github.com/bnema/scriptlet-converter/internal/registry"
)

// ListResult contains conversion results for a single list
type ListResult struct {
	Name           string         `json:"name"`
	Source         string         `json:"source"`
	RulesCount     int            `json:"rules_count"`
	ConvertedCount int            `json:"converted_count"`
	SkippedCount   int            `json:"skipped_count"`
	SkipReasons    map[string]int `json:"skip_reasons,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Manifest contains metadata about the conversion
type Manifest struct {
	Version     string                `json:"version"`
	GeneratedAt string                `json:"generated_at"`
	Target      string                `json:"target"`
	Lists       map[string]ListResult `json:"lists"`
	Combined    CombinedInfo          `json:"combined"`
}

// CombinedInfo contains combined file info
type CombinedInfo struct {
	TotalRules int      `json:"total_rules"`
	Files      []string `json:"files"`
}

// listOutput is what one worker produces for one list
type listOutput struct {
	result ListResult
	rules  []string
}

// pipeline converts lists concurrently, one converter per list over a shared registry
type pipeline struct {
	fetcher           *fetcher.Fetcher
	registry          *registry.Registry
	target            models.Dialect
	keepInconvertible bool
	workers           int
}

func (p *pipeline) run(ctx context.Context, lists []models.FilterList) []listOutput {
	outputs := make([]listOutput, len(lists))

	g, ctx := errgroup.WithContext(ctx)
	workers := p.workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, list := range lists {
		i, list := i, list
		g.Go(func() error {
			outputs[i] = p.processList(logging.WithList(ctx, list.Name), list)
			return nil
		})
	}
	_ = g.Wait()

	return outputs
}

// processList fetches, parses and converts one list. Failures are recorded
// in the result so the remaining lists still run.
func (p *pipeline) processList(ctx context.Context, list models.FilterList) listOutput {
	log := logging.FromContext(ctx)
	out := listOutput{result: ListResult{Name: list.Name, Source: list.Source()}}

	data, err := p.fetcher.Fetch(ctx, list)
	if err != nil {
		log.Error().Err(err).Msg("fetch failed")
		out.result.Error = err.Error()
		return out
	}
	log.Debug().Int("bytes", len(data)).Msg("downloaded")

	// Fresh parser and converter per list for accurate stats
	ps := parser.New(parser.NewClassifier(p.registry))
	rules, err := ps.Parse(bytes.NewReader(data))
	if err != nil {
		log.Error().Err(err).Msg("parse failed")
		out.result.Error = err.Error()
		return out
	}
	pStats := ps.Stats()

	c := converter.New(p.registry,
		converter.WithLogger(*log),
		converter.WithKeepInconvertible(p.keepInconvertible),
	)
	out.rules = c.Convert(rules, p.target)
	cStats := c.Stats()

	out.result.RulesCount = len(out.rules)
	out.result.ConvertedCount = cStats.Converted
	out.result.SkippedCount = cStats.Skipped
	out.result.SkipReasons = cStats.SkipReasons

	log.Info().
		Int("total", pStats.Total).
		Int("scriptlets", pStats.Scriptlets).
		Int("redirects", pStats.Redirects).
		Int("converted", cStats.Converted).
		Int("skipped", cStats.Skipped).
		Msg("list converted")

	return out
}

// inputLists turns --input paths into local filter lists named after the file
func inputLists(paths []string) []models.FilterList {
	lists := make([]models.FilterList, 0, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		lists = append(lists, models.FilterList{Name: name, Path: p, Enabled: true})
	}
	return lists
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputs, _ := cmd.Flags().GetStringSlice("input")
	outputDir, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	generateCombined, _ := cmd.Flags().GetBool("combined")
	keep, _ := cmd.Flags().GetBool("keep-inconvertible")

	target, err := targetDialect(cmd)
	if err != nil {
		return err
	}

	lists := cfg.EnabledLists()
	if len(inputs) > 0 {
		lists = inputLists(inputs)
	}
	if len(lists) == 0 {
		return fmt.Errorf("no enabled filter lists found in config")
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converting %d filter lists to %s...\n", len(lists), target)
	if dryRun {
		fmt.Fprintln(out, "[DRY RUN] No files will be written")
	}

	ctx := logging.WithComponent(logging.WithContext(cmd.Context(), logger), "convert")
	p := &pipeline{
		fetcher:           fetcher.New(cfg.HTTP),
		registry:          reg,
		target:            target,
		keepInconvertible: keep || cfg.Convert.KeepInconvertible,
		workers:           cfg.Convert.Workers,
	}
	outputs := p.run(ctx, lists)

	splitter := converter.NewSplitter(cfg.Output.MaxRulesPerFile)
	results := make(map[string]ListResult, len(outputs))
	totalSkips := make(map[string]int)
	var allRules []string

	for _, o := range outputs {
		results[o.result.Name] = o.result
		if o.result.Error != "" {
			fmt.Fprintf(out, "  %s: ERROR: %s\n", o.result.Name, o.result.Error)
			continue
		}
		fmt.Fprintf(out, "  %s: %d rules (converted: %d, skipped: %d)\n",
			o.result.Name, o.result.RulesCount, o.result.ConvertedCount, o.result.SkippedCount)
		for reason, count := range o.result.SkipReasons {
			totalSkips[reason] += count
		}

		if !dryRun {
			if err := writeParts(outputDir, splitter.Split(o.rules, o.result.Name)); err != nil {
				return err
			}
		}
		allRules = append(allRules, o.rules...)
	}

	if len(totalSkips) > 0 {
		fmt.Fprintln(out, "\nSkipped rules summary:")
		reasons := make([]string, 0, len(totalSkips))
		for reason := range totalSkips {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(out, "  %s: %d\n", reason, totalSkips[reason])
		}
	}

	// Deduplicate combined rules
	if generateCombined && cfg.Output.GenerateCombined && len(allRules) > 0 {
		allRules = converter.Deduplicate(allRules)
		fmt.Fprintf(out, "\nCombined: %d rules (after deduplication)\n", len(allRules))

		if !dryRun {
			parts := splitter.Split(allRules, "combined")
			if err := writeParts(outputDir, parts); err != nil {
				return err
			}

			if cfg.Output.GenerateManifest {
				partNames := make([]string, 0, len(parts))
				for name := range parts {
					partNames = append(partNames, name+".txt")
				}
				sort.Strings(partNames)

				now := time.Now()
				manifest := Manifest{
					Version:     now.Format("2006.01.02"),
					GeneratedAt: now.UTC().Format(time.RFC3339),
					Target:      target.String(),
					Lists:       results,
					Combined: CombinedInfo{
						TotalRules: len(allRules),
						Files:      partNames,
					},
				}
				if err := writeJSON(outputDir, "manifest.json", manifest); err != nil {
					return fmt.Errorf("writing manifest: %w", err)
				}
			}
		}
	}

	fmt.Fprintln(out, "\nDone!")
	return nil
}

func writeParts(dir string, parts map[string][]string) error {
	for name, rules := range parts {
		if err := writeLines(dir, name+".txt", rules); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
