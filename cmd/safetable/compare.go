package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/safetable/safetable/internal/service"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		region   string
		criteria []string
	)

	cmd := &cobra.Command{
		Use:   "compare NAME[@REGION] NAME[@REGION]...",
		Short: "Compare two to five restaurants side by side",
		Long: `Resolves each restaurant and compares hygiene, popularity and value.
A restaurant without an @REGION suffix uses --region.`,
		Example: `  safetable compare 역삼순대국 강남분식 -r 강남구
  safetable compare "을밀대@마포구" "우래옥@중구" --criteria hygiene`,
		Args: cobra.RangeArgs(service.MinCompare, service.MaxCompare),
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

			res, err := svc.CompareRestaurants(cmd.Context(), parseIdentifiers(args, region), criteria)
			if err != nil {
				return err
			}
			return r.Comparison(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "Default region for restaurants without @REGION")
	cmd.Flags().StringSliceVar(&criteria, "criteria", nil, "Criteria: hygiene, rating, price (default: all)")
	return cmd
}

// parseIdentifiers splits "name@region" arguments, falling back to region.
func parseIdentifiers(args []string, region string) []service.Identifier {
	ids := make([]service.Identifier, len(args))
	for i, arg := range args {
		name, r, ok := strings.Cut(arg, "@")
		if !ok || strings.TrimSpace(r) == "" {
			r = region
		}
		ids[i] = service.Identifier{Name: strings.TrimSpace(name), Region: strings.TrimSpace(r)}
	}
	return ids
}
