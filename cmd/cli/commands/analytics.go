package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const flagDays = "days"

func (c *cli) analyticsCmd() *cobra.Command {
	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Views derived from application history",
	}

	flowCmd := &cobra.Command{
		Use:   "flow",
		Short: "Aggregated state-to-state flow graph",
		RunE: func(cmd *cobra.Command, _ []string) error {
			graph, err := c.api.GetFlow(cmd.Context())
			if err != nil {
				return fmt.Errorf("error getting flow graph: %w", err)
			}
			return printJSON(cmd, graph)
		},
	}

	timelineCmd := &cobra.Command{
		Use:   "timeline",
		Short: "Applications per day over a trailing window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, err := cmd.Flags().GetInt(flagDays)
			if err != nil {
				return fmt.Errorf("error getting days flag: %w", err)
			}
			buckets, err := c.api.GetTimeline(cmd.Context(), days)
			if err != nil {
				return fmt.Errorf("error getting timeline: %w", err)
			}
			return printJSON(cmd, buckets)
		},
	}
	timelineCmd.Flags().Int(flagDays, 30, "Window length in days")

	swimlaneCmd := &cobra.Command{
		Use:   "swimlane",
		Short: "Per-application time spent in each state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lanes, err := c.api.GetSwimlane(cmd.Context())
			if err != nil {
				return fmt.Errorf("error getting swimlane: %w", err)
			}
			return printJSON(cmd, lanes)
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Dashboard counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := c.api.GetStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("error getting stats: %w", err)
			}
			return printJSON(cmd, stats)
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep-hot",
		Short: "Clear hot flags older than a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.api.SweepStaleHot(cmd.Context())
			if err != nil {
				return fmt.Errorf("error sweeping hot flags: %w", err)
			}
			return printJSON(cmd, result)
		},
	}

	analyticsCmd.AddCommand(flowCmd, timelineCmd, swimlaneCmd, statsCmd, sweepCmd)
	return analyticsCmd
}
