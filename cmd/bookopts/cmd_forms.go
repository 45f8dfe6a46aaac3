package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) formsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "forms",
		Short: "Print the restore expressions of changed options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			forms, err := s.RestoreForms(all)
			for _, form := range forms {
				fmt.Fprintln(cmd.OutOrStdout(), form)
			}
			if err != nil {
				return fmt.Errorf("forms: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include unchanged options")
	return cmd
}
