package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vytor/mathcat/internal/config"
	"github.com/vytor/mathcat/internal/identity"
	"github.com/vytor/mathcat/internal/tier"
)

func newWhoamiCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if id == nil {
				fmt.Fprintln(out, "not logged in")
				return nil
			}
			fmt.Fprintf(out, "%s (%s), class %s, user %d\n", id.Name, id.AltName, id.ClassLabel, id.UserID)
			fmt.Fprintf(out, "score %d\n", id.TotalScore)
			return nil
		},
	}
}

func newLogoutCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Erase the stored learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(*cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <score>",
		Short: "Show the cat stage for a reward score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("score must be an integer: %q", args[0])
			}
			t := tier.Of(score)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tier.Label(t.Stage))
			if t.IsFinal() {
				fmt.Fprintln(out, "final stage reached")
			} else {
				fmt.Fprintf(out, "%d points to the next stage\n", t.RemainingToNext)
			}
			return nil
		},
	}
}

func openStore(cfg config.Config) (*identity.Store, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	backend, err := openIdentityBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	return identity.NewStore(backend.slot), func() { _ = backend.close() }, nil
}
