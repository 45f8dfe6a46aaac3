package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) resetCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset [<section> <name>]",
		Short: "Restore options to their defaults and save the book",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 2) {
				return errors.New("reset: pass either --all or a section and a name")
			}
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if all {
				err = s.ResetAll(cmd.Context())
			} else {
				err = s.Reset(cmd.Context(), args[0], args[1])
			}
			if err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "reset every option")
	return cmd
}
