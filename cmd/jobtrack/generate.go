package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrack/internal/llm"
	"github.com/jonathan/jobtrack/internal/types"
)

// generateFlags are the inputs shared by tailor and score.
type generateFlags struct {
	jobFile     string
	resumeFile  string
	profileFile string
	outFile     string
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.jobFile, "job", "", "Path to job description text or HTML file (required)")
	cmd.Flags().StringVarP(&f.resumeFile, "resume", "r", "", "Path to base resume text file")
	cmd.Flags().StringVarP(&f.profileFile, "profile", "p", "", "Path to candidate profile JSON file")
	cmd.Flags().StringVarP(&f.outFile, "out", "o", "", "Path to output JSON file (default stdout)")

	if err := cmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
}

// request reads the flag files into a validated ResumeRequest.
func (f *generateFlags) request() (*types.ResumeRequest, error) {
	job, err := os.ReadFile(f.jobFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read job description file: %w", err)
	}
	req := &types.ResumeRequest{JobDescription: string(job)}

	if f.resumeFile != "" {
		resume, err := os.ReadFile(f.resumeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume file: %w", err)
		}
		req.ResumeText = string(resume)
	}

	if f.profileFile != "" {
		content, err := os.ReadFile(f.profileFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile file: %w", err)
		}
		var profile types.Profile
		if err := json.Unmarshal(content, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
		}
		req.Profile = &profile
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return req, nil
}

// writeJSON writes v indented to the --out file or stdout.
func (f *generateFlags) writeJSON(stdout io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if f.outFile == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(f.outFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// describeFailure expands a chain error into one line per attempt.
func describeFailure(err error) error {
	var chainErr *llm.ChainError
	if !errors.As(err, &chainErr) {
		return err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "generation failed (status %d): %s", chainErr.HTTPStatus(), chainErr.Last.Detail)
	for i, f := range chainErr.Failures {
		fmt.Fprintf(&sb, "\n  attempt %d: %v", i+1, f)
	}
	return errors.New(sb.String())
}

func withTimeout(ctx context.Context, c *cli) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := c.v.GetDuration("server.request-timeout")
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
