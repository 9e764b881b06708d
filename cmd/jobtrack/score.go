package main

import "github.com/spf13/cobra"

func newScoreCmd(c *cli) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score how well a candidate matches a job description",
		Long:  "Asks the scoring provider for a 0-100 match score with a short reason and prints it as JSON.",
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

			result, err := svc.scorer.Score(ctx, req.JobDescription, req.Candidate())
			if err != nil {
				return describeFailure(err)
			}
			return flags.writeJSON(cmd.OutOrStdout(), map[string]any{"result": result})
		},
	}
	flags.register(cmd)
	return cmd
}
