package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bookopts/pkg/codec"
)

func (a *app) getCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "get <section> <name>",
		Short: "Print the encoded value of one option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := codec.ParseProfile(profile)
			if err != nil {
				return err
			}
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			value, err := s.Get(args[0], args[1], p)
			if err != nil {
				return fmt.Errorf("get: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	profileFlag(cmd, &profile, codec.ProfileStream)
	return cmd
}
