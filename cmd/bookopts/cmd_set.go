package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-bookopts/pkg/codec"
)

func (a *app) setCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "set <section> <name> <value>",
		Short: "Decode a value into one option and save the book",
		Args:  cobra.ExactArgs(3),
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

			if err := s.Set(cmd.Context(), args[0], args[1], args[2], p); err != nil {
				return fmt.Errorf("set: %w", err)
			}
			a.logger.Info("option set", zap.String("section", args[0]), zap.String("name", args[1]))
			return nil
		},
	}

	profileFlag(cmd, &profile, codec.ProfileStream)
	return cmd
}
