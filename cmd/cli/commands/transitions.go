package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applytrack/applytrack/pkg/api/v1/handlers"
)

const flagAt = "at"

func (c *cli) transitionsCmd() *cobra.Command {
	transitionsCmd := &cobra.Command{
		Use:   "transitions",
		Short: "Correct recorded transitions",
	}

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Correct the timestamp or note of a transition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var params handlers.UpdateTransitionParams
			if raw, _ := cmd.Flags().GetString(flagAt); raw != "" {
				at, err := parseTime(raw)
				if err != nil {
					return err
				}
				params.TransitionedAt = &at
			}
			if cmd.Flags().Changed(flagNote) {
				note, _ := cmd.Flags().GetString(flagNote)
				params.Note = &note
			}
			if err := params.Validate(); err != nil {
				return err
			}

			entry, err := c.api.UpdateTransition(cmd.Context(), id, params)
			if err != nil {
				return fmt.Errorf("error updating transition: %w", err)
			}
			return printJSON(cmd, entry)
		},
	}
	updateCmd.Flags().String(flagAt, "", "Corrected time (RFC 3339 or YYYY-MM-DD)")
	updateCmd.Flags().StringP(flagNote, "n", "", "Replacement note")

	transitionsCmd.AddCommand(updateCmd)
	return transitionsCmd
}
