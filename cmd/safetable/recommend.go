package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/safetable/safetable/internal/service"
	"github.com/safetable/safetable/pkg/rank"
)

func newRecommendCmd(a *app) *cobra.Command {
	var req service.RecommendRequest

	cmd := &cobra.Command{
		Use:   "recommend AREA",
		Short: "Recommend trustworthy restaurants in an area",
		Long: `Searches AREA on the map providers, resolves each candidate against the
hygiene registry and ranks them by trust score under the chosen priority.`,
		Example: `  safetable recommend 역삼동 --purpose 회식 --priority hygiene
  safetable recommend 연남동 --category 카페 --budget low -n 3`,
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

			req.Area = strings.Join(args, " ")
			list, err := svc.RecommendRestaurants(cmd.Context(), req)
			if err != nil {
				return err
			}
			return r.Recommendations(cmd.OutOrStdout(), list)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Purpose, "purpose", "", "Occasion, e.g. 데이트, 회식, 혼밥 (picks a category)")
	f.StringVar(&req.Category, "category", "", "Food category; overrides --purpose")
	f.StringVar(&req.Priority, "priority", string(rank.PriorityBalanced), "Priority: hygiene, rating or balanced")
	f.StringVar(&req.Budget, "budget", string(rank.BudgetAny), "Budget: low, medium, high or any")
	f.IntVarP(&req.Limit, "limit", "n", rank.DefaultLimit, "Number of recommendations (1-10)")
	return cmd
}
