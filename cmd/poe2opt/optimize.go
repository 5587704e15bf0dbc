package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	poe2opt "github.com/User-dev-volt/poe2-optimizer-v6-sub001"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/ports"
)

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run one optimization and print the best-found build",
	Long: `Runs the hill-climbing search for a single build and prints a report.

The unallocated point budget defaults to the level formula; pass --unallocated
to override it. Interrupting the run (Ctrl+C) stops at the next iteration
boundary and still reports the best build found so far.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSetup(cmd)
		if err != nil {
			return err
		}

		class, _ := cmd.Flags().GetString("class")
		metricName, _ := cmd.Flags().GetString("metric")
		level, _ := cmd.Flags().GetInt("level")
		runID, _ := cmd.Flags().GetString("run-id")
		jsonOut, _ := cmd.Flags().GetBool("json")

		metric, err := domain.ParseMetricKind(metricName)
		if err != nil {
			return err
		}

		alloc, err := parseAllocatedFlag(cmd)
		if err != nil {
			return err
		}
		budget, err := parseBudgetFlags(cmd, level, alloc.Len())
		if err != nil {
			return err
		}

		progress := func(u ports.ProgressUpdate) {
			fmt.Fprintf(os.Stderr, "iteration %d: best=%.2f (%+.2f%%), %d/%d points, %s elapsed\n",
				u.Iteration, u.BestMetric, u.ImprovementPct,
				u.Budget.UnallocatedUsed, u.Budget.UnallocatedAvailable,
				u.Elapsed.Round(timeRound))
		}

		opt, err := newOptimizer(cfg, logger, poe2opt.WithProgress(progress))
		if err != nil {
			return err
		}

		// Ctrl+C cancels at the next iteration boundary; the run still
		// reports its best-so-far build.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := opt.Optimize(ctx, domain.RunInput{
			RunID:  runID,
			Build:  domain.BuildContext{Class: class, Level: level, Allocation: alloc},
			Budget: budget,
			Metric: metric,
		})
		if err != nil {
			return err
		}

		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		return printReport(os.Stdout, result)
	},
}

func parseAllocatedFlag(cmd *cobra.Command) (domain.Allocation, error) {
	raw, _ := cmd.Flags().GetString("allocated")
	alloc := domain.NewAllocation()
	if raw == "" {
		return alloc, nil
	}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("--allocated must be a comma-separated list of node IDs: %w", err)
		}
		alloc.Add(domain.NodeID(id))
	}
	return alloc, nil
}

func parseBudgetFlags(cmd *cobra.Command, level, allocated int) (domain.BudgetState, error) {
	unallocated, _ := cmd.Flags().GetInt("unallocated")
	if unallocated < 0 {
		unallocated = domain.UnallocatedForLevel(level, allocated)
	}

	respecRaw, _ := cmd.Flags().GetString("respec")
	respec := domain.LimitedRespec(0)
	if respecRaw == "unlimited" {
		respec = domain.UnlimitedRespec()
	} else if respecRaw != "" {
		n, err := strconv.Atoi(respecRaw)
		if err != nil {
			return domain.BudgetState{}, fmt.Errorf("--respec must be a number or %q", "unlimited")
		}
		respec = domain.LimitedRespec(n)
	}
	return domain.NewBudgetState(unallocated, respec)
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().String("class", "", "Character class (required)")
	optimizeCmd.Flags().String("metric", "dps", "Metric to maximize: dps, ehp or balanced")
	optimizeCmd.Flags().Int("level", 1, "Character level")
	optimizeCmd.Flags().Int("unallocated", -1, "Unallocated points (default: derived from level)")
	optimizeCmd.Flags().String("respec", "0", "Respec points: a number or 'unlimited'")
	optimizeCmd.Flags().String("allocated", "", "Comma-separated node IDs already allocated")
	optimizeCmd.Flags().String("run-id", "", "Run label for persistence")
	optimizeCmd.Flags().Bool("json", false, "Print the raw result as JSON")
	optimizeCmd.MarkFlagRequired("class")
}
