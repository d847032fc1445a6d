package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/safetable/safetable/pkg/config"
	"github.com/safetable/safetable/pkg/scoring"
)

type rawScoreOpts struct {
	grade      string
	violations int
	years      float64
	rating     float64
	reviews    int
	franchise  bool
	profile    string
}

func newScoreCmd(a *app) *cobra.Command {
	var (
		region string
		raw    bool
		opts   rawScoreOpts
	)

	cmd := &cobra.Command{
		Use:   "score [NAME]",
		Short: "Compute the trust score of a restaurant",
		Long: `Looks NAME up in REGION, merges provider ratings and prints the trust
score with its per-indicator breakdown.

With --raw, no lookup happens: the indicator values are taken from flags and
the score is printed as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw {
				return runRawScore(cmd, a, opts)
			}
			if len(args) == 0 {
				return fmt.Errorf("score needs a restaurant name (or --raw)")
			}
			if region == "" {
				return fmt.Errorf(`required flag "region" not set`)
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			svc, done, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			rep, err := svc.TrustScore(cmd.Context(), strings.Join(args, " "), region)
			if err != nil {
				return err
			}
			return r.TrustScore(cmd.OutOrStdout(), rep)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&region, "region", "r", "", "Region of the restaurant")
	f.BoolVar(&raw, "raw", false, "Score raw indicator values instead of looking a restaurant up")
	f.StringVar(&opts.grade, "grade", "", "Hygiene grade (AAA, AA, A); empty when ungraded")
	f.IntVar(&opts.violations, "violations", 0, "Violation count")
	f.Float64Var(&opts.years, "years", -1, "Years in business; negative when unknown")
	f.Float64Var(&opts.rating, "rating", -1, "Combined rating 0-5; negative when unknown")
	f.IntVar(&opts.reviews, "reviews", 0, "Review count")
	f.BoolVar(&opts.franchise, "franchise", false, "Franchise branch")
	f.StringVar(&opts.profile, "profile", "", "Scoring profile (default: from config)")
	return cmd
}

func (o rawScoreOpts) input() scoring.Input {
	in := scoring.Input{
		ViolationCount: o.violations,
		ReviewCount:    o.reviews,
		IsFranchise:    o.franchise,
	}
	if o.grade != "" {
		g := strings.ToUpper(o.grade)
		in.HygieneGrade = &g
	}
	if o.years >= 0 {
		y := o.years
		in.BusinessYears = &y
	}
	if o.rating >= 0 {
		r := o.rating
		in.Rating = &r
	}
	return in
}

func runRawScore(cmd *cobra.Command, a *app, opts rawScoreOpts) error {
	name := firstNonEmpty(opts.profile, a.cfg.Scoring.Profile, config.DefaultConfig().Scoring.Profile)
	profile, err := scoring.ProfileByName(name)
	if err != nil {
		return err
	}
	res := scoring.NewEngine(profile).Score(opts.input())
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
