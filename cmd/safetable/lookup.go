package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newLookupCmd(a *app) *cobra.Command {
	var (
		region  string
		history bool
	)

	cmd := &cobra.Command{
		Use:   "lookup NAME",
		Short: "Show the hygiene grade of a restaurant",
		Long: `Resolves NAME in REGION against the hygiene registry and prints its grade,
license date and, with --history, recent administrative actions.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			svc, done, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			res, err := svc.ResolveHygiene(cmd.Context(), strings.Join(args, " "), region, history)
			if err != nil {
				return err
			}
			return r.Hygiene(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "Region, e.g. 강남구 or 서울 마포구 (required)")
	cmd.Flags().BoolVar(&history, "history", true, "Include violation history")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}
