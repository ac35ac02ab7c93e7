package main

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"

	"github.com/rmarsh/chessperf/internal/logging"
	"github.com/rmarsh/chessperf/internal/pgnimport"
	"github.com/rmarsh/chessperf/internal/store"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <pgn-directory>",
		Short: "Import PGN game headers and derive player/event/time-control records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())

			s, err := store.Open(store.Options{Dir: cfg.Store.Dir})
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()

			imp := pgnimport.NewImporter(s, pgnimport.Config{SegmentSize: cfg.Import.SegmentSize})
			reporter := pgnimport.NewLogReporter(func(msg string) {
				logging.Info().Msg(msg)
			})

			stats, err := imp.ImportDirectory(cmd.Context(), args[0], reporter)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			logging.Info().
				Int("files_processed", stats.FilesProcessed).
				Int("files_skipped", stats.FilesSkipped).
				Int("games_imported", stats.GamesImported).
				Int("games_duplicate", stats.GamesDuplicate).
				Int("games_bad_result", stats.GamesBadResult).
				Int("players_created", stats.PlayersCreated).
				Int("events_created", stats.EventsCreated).
				Int("time_controls_created", stats.TimeControlsCreated).
				Int("modes_created", stats.ModesCreated).
				Msg("import complete")

			if err := s.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("value log GC")
			}
			return nil
		},
	}
	return cmd
}
