package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTailorCmd(c *cli) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "tailor",
		Short: "Tailor a resume to a job description",
		Long:  "Runs the provider fallback chain once for a job description and base resume and prints the tailored result as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			cfg, logger, err := c.load(true)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := withTimeout(cmd.Context(), c)
			defer cancel()

			svc, err := buildServices(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			resp, err := svc.tailor.Tailor(ctx, req.JobDescription, req.Candidate())
			if err != nil {
				return describeFailure(err)
			}
			logger.Debug("tailoring done", zap.String("model", resp.Model), zap.Bool("cached", resp.Cached))

			return flags.writeJSON(cmd.OutOrStdout(), map[string]any{
				"result": resp.Result,
				"model":  resp.Model,
				"cached": resp.Cached,
			})
		},
	}
	flags.register(cmd)
	return cmd
}
