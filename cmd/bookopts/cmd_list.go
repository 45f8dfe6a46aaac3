package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/option"
)

func (a *app) listCmd() *cobra.Command {
	var (
		section     string
		changedOnly bool
		internal    bool
		profile     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List options with their current values",
		Args:  cobra.NoArgs,
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

			opts := s.Options().All()
			if section != "" {
				opts = s.Options().Options(section)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			shown := 0
			for _, o := range opts {
				if changedOnly && !o.Differs() {
					continue
				}
				if !internal && o.UIType() == option.UITypeInternal {
					continue
				}
				value, err := s.Codec().Encode(o, p)
				if err != nil {
					return fmt.Errorf("list: encoding %s/%s: %w", o.Section(), o.Name(), err)
				}
				marker := " "
				if o.Differs() {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s/%s\t%s\t%s\n", marker, o.Section(), o.Name(), o.Kind(), value)
				shown++
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if shown == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No options found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "only list one section")
	cmd.Flags().BoolVar(&changedOnly, "changed", false, "only list options that differ from their default")
	cmd.Flags().BoolVar(&internal, "internal", false, "include internal options")
	profileFlag(cmd, &profile, codec.ProfileStream)
	return cmd
}
