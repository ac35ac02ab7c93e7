package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmarsh/chessperf/internal/alias"
	"github.com/rmarsh/chessperf/internal/model"
	"github.com/rmarsh/chessperf/internal/store"
)

// newIdentifyCmd groups the alias-manager operations that merge, split,
// and re-pin player identities, one subcommand per internal/alias entry
// point.
func newIdentifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Merge, split, or re-pin player identities",
	}
	cmd.AddCommand(
		newIdentifyMergeCmd(),
		newIdentifySplitCmd(),
		newIdentifyBreakCmd(),
		newIdentifyPinCmd(),
		newIdentifyBookmarkCmd(),
	)
	return cmd
}

func openStoreFromContext(cmd *cobra.Command) (*store.Store, error) {
	cfg := configFromContext(cmd.Context())
	s, err := store.Open(store.Options{Dir: cfg.Store.Dir})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func commitOrBackout(txn *store.Txn, err *error) {
	if *err != nil {
		txn.Backout()
		return
	}
	*err = txn.Commit()
}

func newIdentifyMergeCmd() *cobra.Command {
	var personPK int64
	cmd := &cobra.Command{
		Use:   "merge --person <person-primary-key> <alias-primary-key>...",
		Short: "Fold one or more player records into person's identity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			aliases, err := parsePrimaryKeys(args)
			if err != nil {
				return err
			}
			s, err := openStoreFromContext(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txn := s.StartTransaction()
			defer commitOrBackout(txn, &err)
			err = alias.Identify(txn, model.KindPlayer, aliases, store.PrimaryKey(personPK))
			return err
		},
	}
	cmd.Flags().Int64Var(&personPK, "person", 0, "primary key of the record the aliases should merge into")
	cmd.MarkFlagRequired("person")
	return cmd
}

func newIdentifySplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split <identity-primary-key>",
		Short: "Split every alias of an identity back into its own identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, err := parsePrimaryKey(args[0])
			if err != nil {
				return err
			}
			s, err := openStoreFromContext(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txn := s.StartTransaction()
			defer commitOrBackout(txn, &err)
			err = alias.SplitAll(txn, model.KindPlayer, pk)
			return err
		},
	}
}

func newIdentifyBreakCmd() *cobra.Command {
	var identityPK int64
	cmd := &cobra.Command{
		Use:   "break <alias-primary-key>...",
		Short: "Split the named aliases off an identity, leaving the rest merged",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			aliases, err := parsePrimaryKeys(args)
			if err != nil {
				return err
			}
			s, err := openStoreFromContext(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txn := s.StartTransaction()
			defer commitOrBackout(txn, &err)
			err = alias.Break(txn, model.KindPlayer, store.PrimaryKey(identityPK), aliases)
			return err
		},
	}
	cmd.Flags().Int64Var(&identityPK, "identity", 0, "primary key of the identity the aliases belong to")
	cmd.MarkFlagRequired("identity")
	return cmd
}

func newIdentifyPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <primary-key>",
		Short: "Make the named record the canonical identity for its group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, err := parsePrimaryKey(args[0])
			if err != nil {
				return err
			}
			s, err := openStoreFromContext(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txn := s.StartTransaction()
			defer commitOrBackout(txn, &err)
			err = alias.ChangeIdentity(txn, model.KindPlayer, pk)
			return err
		},
	}
}

func newIdentifyBookmarkCmd() *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "bookmark <player-primary-key>",
		Short: "Pin (or, with --clear, unpin) a player record against automatic merging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, err := parsePrimaryKey(args[0])
			if err != nil {
				return err
			}
			s, err := openStoreFromContext(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			txn := s.StartTransaction()
			defer commitOrBackout(txn, &err)
			err = alias.Bookmark(txn, pk, !clear)
			return err
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "unpin instead of pin")
	return cmd
}

func parsePrimaryKey(s string) (store.PrimaryKey, error) {
	var v uint32
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, fmt.Errorf("chessperf: %q is not a primary key: %w", s, err)
	}
	return store.PrimaryKey(v), nil
}

func parsePrimaryKeys(args []string) ([]store.PrimaryKey, error) {
	out := make([]store.PrimaryKey, 0, len(args))
	for _, a := range args {
		pk, err := parsePrimaryKey(a)
		if err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	return out, nil
}
