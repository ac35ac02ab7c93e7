package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rmarsh/chessperf/internal/calc"
	"github.com/rmarsh/chessperf/internal/logging"
	"github.com/rmarsh/chessperf/internal/population"
	"github.com/rmarsh/chessperf/internal/selector"
	"github.com/rmarsh/chessperf/internal/store"
)

func newCalculateCmd() *cobra.Command {
	var (
		playerIdentity int64
		hasPlayer      bool
		events         []int64
		fromDate       string
		toDate         string
		timeControl    int64
		hasTimeControl bool
		mode           int64
		hasMode        bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Evaluate a selection rule and report chess performance numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())

			rule := selector.Rule{Name: "cli", Events: events, FromDate: fromDate, ToDate: toDate}
			if hasPlayer {
				rule.PlayerIdentity = &playerIdentity
			}
			if hasTimeControl {
				rule.TimeControlIdentity = &timeControl
			}
			if hasMode {
				rule.ModeIdentity = &mode
			}

			s, err := store.Open(store.Options{Dir: cfg.Store.Dir})
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()

			txn := s.StartReadOnlyTransaction()
			defer txn.EndReadOnlyTransaction()

			result, err := selector.Select(txn, rule)
			if err != nil {
				return fmt.Errorf("evaluate rule: %w", err)
			}

			logging.Info().
				Int("games_selected", int(result.Games.Count())).
				Int("components", len(result.Components)).
				Msg("rule evaluated")

			for i, component := range result.Components {
				pop, err := population.Build(txn, result.Games, component, cfg.Calc.Measure)
				if err != nil {
					return fmt.Errorf("build component %d: %w", i, err)
				}
				if !pop.Convergent {
					fmt.Printf("component %d: %d players, non-convergent (no 3-cycle in opponent graph, not calculated)\n", i, len(component.Players))
					continue
				}

				iterations, converged := calc.Run(pop.Persons, cfg.Calc.Tolerance, cfg.Calc.MaxIterations)
				if !converged {
					fmt.Printf("component %d: %d players, did not converge within %d iterations\n", i, len(component.Players), iterations)
					continue
				}

				high := calc.HighPerformance(pop.Persons)
				printComponent(i, pop, high, iterations)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&playerIdentity, "player", 0, "player identity code driving breadth-first opponent expansion")
	cmd.Flags().Int64SliceVar(&events, "event", nil, "event identity code (repeatable) driving event-list selection")
	cmd.Flags().StringVar(&fromDate, "from", "", "inclusive start date, YYYY.MM.DD")
	cmd.Flags().StringVar(&toDate, "to", "", "inclusive end date, YYYY.MM.DD")
	cmd.Flags().Int64Var(&timeControl, "time-control", 0, "time control identity code filter")
	cmd.Flags().Int64Var(&mode, "mode", 0, "mode identity code filter")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		hasPlayer = cmd.Flags().Changed("player")
		hasTimeControl = cmd.Flags().Changed("time-control")
		hasMode = cmd.Flags().Changed("mode")
		return nil
	}

	return cmd
}

func printComponent(index int, pop *population.Population, high float64, iterations int) {
	type row struct {
		identity    int64
		name        string
		gameCount   int
		score       float64
		performance float64
		normalized  float64
	}
	rows := make([]row, 0, len(pop.Persons))
	for id, p := range pop.Persons {
		rows = append(rows, row{
			identity:    id,
			name:        p.Name,
			gameCount:   p.GameCount(),
			score:       p.Score(),
			performance: p.Performance(),
			normalized:  calc.Normalized(high, p),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].normalized != rows[j].normalized {
			return rows[i].normalized < rows[j].normalized
		}
		return rows[i].identity < rows[j].identity
	})

	fmt.Printf("component %d: %d players, converged in %d iterations\n", index, len(rows), iterations)
	for _, r := range rows {
		fmt.Printf("  %-24s games=%-4d score=%-6.1f performance=%-10.4f normalized=%-10.4f\n",
			r.name, r.gameCount, r.score, r.performance, r.normalized)
	}
}
