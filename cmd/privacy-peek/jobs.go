package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KigoJomo/privacy-peek/internal/common"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect analysis jobs",
	}
	cmd.AddCommand(jobsStatusCmd())
	return cmd
}

func jobsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the current status of an analysis job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			job, err := store.GetJob(cmd.Context(), strings.TrimSpace(args[0]))
			if errors.Is(err, common.ErrJobNotFound) {
				fmt.Println("No job found with that ID.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get job: %w", err)
			}

			fmt.Printf("Job:     %s\n", job.ID)
			fmt.Printf("Site:    %s\n", job.SiteInput)
			fmt.Printf("Status:  %s\n", job.Status)
			fmt.Printf("Created: %s\n", job.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Printf("Updated: %s\n", job.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
