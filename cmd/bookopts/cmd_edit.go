package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bookopts/pkg/tui"
)

func (a *app) editCmd() *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit options interactively and save the book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			opts := []tui.Option{tui.WithBook(s.Book()), tui.WithLogger(a.logger)}
			if a.driver != nil {
				opts = append(opts, tui.WithPromptDriver(a.driver))
			}
			dialog, err := tui.New(opts...)
			if err != nil {
				return err
			}

			if section != "" {
				for _, o := range s.Options().Options(section) {
					if err = dialog.Prompt(cmd.Context(), o); err != nil {
						break
					}
				}
			} else {
				err = dialog.Run(cmd.Context(), s.Options())
			}
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted; nothing saved.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			return s.Save(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "only edit one section")
	return cmd
}
