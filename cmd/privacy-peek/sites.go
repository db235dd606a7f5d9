package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KigoJomo/privacy-peek/internal/common"
	"github.com/KigoJomo/privacy-peek/internal/model"
)

func sitesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Query stored site analyses",
	}
	cmd.AddCommand(sitesRecentCmd())
	cmd.AddCommand(sitesLookupCmd())
	cmd.AddCommand(sitesTagCmd())
	return cmd
}

func sitesRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently analyzed sites",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sites, err := store.GetRecentSites(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list recent sites: %w", err)
			}
			if len(sites) == 0 {
				fmt.Println("No sites analyzed yet.")
				return nil
			}

			for i := range sites {
				printSiteSummary(&sites[i])
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 6, "maximum number of sites to list")
	return cmd
}

func sitesLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <normalized-url>",
		Short: "Show the stored analysis for a site URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			analysis, err := store.GetSiteByURL(cmd.Context(), strings.TrimSpace(args[0]))
			if errors.Is(err, common.ErrNotFound) {
				fmt.Println("No analysis found for that URL.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("lookup failed: %w", err)
			}

			printAnalysis(analysis)
			return nil
		},
	}
}

func sitesTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <tag>",
		Short: "List sites carrying an exact tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sites, err := store.GetSitesByTag(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("tag lookup failed: %w", err)
			}
			if len(sites) == 0 {
				fmt.Println("No sites found for that tag.")
				return nil
			}

			for i := range sites {
				printSiteSummary(&sites[i])
			}
			return nil
		},
	}
}

func printSiteSummary(analysis *model.SiteAnalysis) {
	fmt.Printf("%-30s %6.2f  %s  (analyzed %s)\n",
		analysis.SiteName,
		analysis.OverallScore,
		analysis.NormalizedBaseURL,
		analysis.LastAnalyzed.Format("2006-01-02"))
}
