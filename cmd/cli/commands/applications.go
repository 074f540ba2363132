package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applytrack/applytrack/pkg/api/v1/client"
	"github.com/applytrack/applytrack/pkg/api/v1/handlers"
	"github.com/applytrack/applytrack/pkg/models"
)

// Flag names
const (
	flagCompanyID    = "company-id"
	flagTitle        = "title"
	flagURL          = "url"
	flagDescription  = "description"
	flagLocation     = "location"
	flagEasyApply    = "easy-apply"
	flagCoverLetter  = "cover-letter"
	flagHot          = "hot"
	flagTags         = "tags"
	flagAppliedAt    = "applied-at"
	flagInitialState = "state"
	flagTo           = "to"
	flagNote         = "note"
	flagExpect       = "expect"
)

func (c *cli) applicationsCmd() *cobra.Command {
	applicationsCmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps", "app"},
		Short:   "Manage job applications",
	}
	applicationsCmd.AddCommand(
		c.listApplicationsCmd(),
		c.createApplicationCmd(),
		c.getApplicationCmd(),
		c.updateApplicationCmd(),
		c.deleteApplicationCmd(),
		c.moveApplicationCmd(),
		c.historyCmd(),
		c.statesCmd(),
	)
	return applicationsCmd
}

func (c *cli) listApplicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := client.ListParams{}
			var err error
			if params.Page, err = cmd.Flags().GetInt(flagPage); err != nil {
				return fmt.Errorf("error getting page flag: %w", err)
			}
			if params.CompanyID, err = cmd.Flags().GetUint(flagCompanyID); err != nil {
				return fmt.Errorf("error getting company-id flag: %w", err)
			}
			if params.HotOnly, err = cmd.Flags().GetBool(flagHot); err != nil {
				return fmt.Errorf("error getting hot flag: %w", err)
			}
			if raw, _ := cmd.Flags().GetString(flagInitialState); raw != "" {
				state, err := models.ParseState(raw)
				if err != nil {
					return err
				}
				params.State = &state
			}

			apps, err := c.api.ListApplications(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("error listing applications: %w", err)
			}
			return printJSON(cmd, apps)
		},
	}
	cmd.Flags().IntP(flagPage, "p", 1, "Page number for pagination")
	cmd.Flags().Uint(flagCompanyID, 0, "Only applications at this company")
	cmd.Flags().String(flagInitialState, "", "Only applications currently in this state")
	cmd.Flags().Bool(flagHot, false, "Only hot applications")
	return cmd
}

func (c *cli) createApplicationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an application",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			params := handlers.CreateApplicationParams{}
			params.CompanyID, _ = flags.GetUint(flagCompanyID)
			params.JobTitle, _ = flags.GetString(flagTitle)
			params.PostingURL, _ = flags.GetString(flagURL)
			params.Description, _ = flags.GetString(flagDescription)
			location, _ := flags.GetString(flagLocation)
			params.WorkLocation = models.WorkLocation(location)
			params.EasyApply, _ = flags.GetBool(flagEasyApply)
			params.CoverLetterRequired, _ = flags.GetBool(flagCoverLetter)
			params.Hot, _ = flags.GetBool(flagHot)
			params.Tags, _ = flags.GetStringSlice(flagTags)

			if raw, _ := flags.GetString(flagAppliedAt); raw != "" {
				at, err := parseTime(raw)
				if err != nil {
					return err
				}
				params.AppliedAt = &at
			}
			if raw, _ := flags.GetString(flagInitialState); raw != "" {
				state, err := models.ParseState(raw)
				if err != nil {
					return err
				}
				params.InitialState = &state
			}
			if err := params.Validate(); err != nil {
				return err
			}

			app, err := c.api.CreateApplication(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("error creating application: %w", err)
			}
			return printJSON(cmd, app)
		},
	}
	addAttributeFlags(cmd)
	cmd.Flags().String(flagInitialState, "", "Initial state (INTERESTED or APPLIED, default INTERESTED)")
	for _, name := range []string{flagCompanyID, flagTitle} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Errorf("failed to mark %s flag as required for create application command: %w", name, err))
		}
	}
	return cmd
}

func addAttributeFlags(cmd *cobra.Command) {
	cmd.Flags().Uint(flagCompanyID, 0, "Company id")
	cmd.Flags().StringP(flagTitle, "t", "", "Job title")
	cmd.Flags().String(flagURL, "", "Posting URL")
	cmd.Flags().StringP(flagDescription, "d", "", "Description")
	cmd.Flags().String(flagLocation, "", "Work location (REMOTE, ONSITE, HYBRID, CONTRACT)")
	cmd.Flags().Bool(flagEasyApply, false, "Easy apply posting")
	cmd.Flags().Bool(flagCoverLetter, false, "Cover letter required")
	cmd.Flags().Bool(flagHot, false, "Mark as hot")
	cmd.Flags().StringSlice(flagTags, nil, "Comma separated tags")
	cmd.Flags().String(flagAppliedAt, "", "Applied date (RFC 3339 or YYYY-MM-DD)")
}

func (c *cli) getApplicationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := c.api.GetApplication(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("error getting application: %w", err)
			}
			return printJSON(cmd, app)
		},
	}
}

func (c *cli) updateApplicationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update application attributes. Only the given flags are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			params, err := patchFromFlags(cmd)
			if err != nil {
				return err
			}
			if err := params.Validate(); err != nil {
				return err
			}
			app, err := c.api.UpdateApplication(cmd.Context(), id, params)
			if err != nil {
				return fmt.Errorf("error updating application: %w", err)
			}
			return printJSON(cmd, app)
		},
	}
	addAttributeFlags(cmd)
	return cmd
}

func patchFromFlags(cmd *cobra.Command) (handlers.UpdateApplicationParams, error) {
	flags := cmd.Flags()
	var params handlers.UpdateApplicationParams
	if flags.Changed(flagCompanyID) {
		v, _ := flags.GetUint(flagCompanyID)
		params.CompanyID = &v
	}
	changedString := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	changedBool := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}
	params.JobTitle = changedString(flagTitle)
	params.PostingURL = changedString(flagURL)
	params.Description = changedString(flagDescription)
	if loc := changedString(flagLocation); loc != nil {
		wl := models.WorkLocation(*loc)
		params.WorkLocation = &wl
	}
	params.EasyApply = changedBool(flagEasyApply)
	params.CoverLetterRequired = changedBool(flagCoverLetter)
	params.Hot = changedBool(flagHot)
	if flags.Changed(flagTags) {
		tags, _ := flags.GetStringSlice(flagTags)
		params.Tags = &tags
	}
	if raw := changedString(flagAppliedAt); raw != nil {
		at, err := parseTime(*raw)
		if err != nil {
			return params, err
		}
		params.AppliedAt = &at
	}
	return params, nil
}

func (c *cli) deleteApplicationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.api.DeleteApplication(cmd.Context(), id); err != nil {
				return fmt.Errorf("error deleting application: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %d deleted\n", id)
			return nil
		},
	}
}

func (c *cli) moveApplicationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move an application to its next state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetString(flagTo)
			to, err := models.ParseState(raw)
			if err != nil {
				return err
			}
			params := handlers.MoveApplicationParams{ToState: to}
			if cmd.Flags().Changed(flagNote) {
				note, _ := cmd.Flags().GetString(flagNote)
				params.Note = &note
			}
			if raw, _ := cmd.Flags().GetString(flagExpect); raw != "" {
				expected, err := models.ParseState(raw)
				if err != nil {
					return err
				}
				params.ExpectedState = &expected
			}

			entry, err := c.api.MoveApplication(cmd.Context(), id, params)
			if err != nil {
				return fmt.Errorf("error moving application: %w", err)
			}
			return printJSON(cmd, entry)
		},
	}
	cmd.Flags().String(flagTo, "", "Target state")
	cmd.Flags().StringP(flagNote, "n", "", "Note stored on the transition")
	cmd.Flags().String(flagExpect, "", "Fail if the application is no longer in this state")
	if err := cmd.MarkFlagRequired(flagTo); err != nil {
		panic(fmt.Errorf("failed to mark to flag as required for move command: %w", err))
	}
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show an application's transitions in write order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entries, err := c.api.GetApplicationHistory(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("error getting history: %w", err)
			}
			return printJSON(cmd, entries)
		},
	}
}

func (c *cli) statesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "Show the state graph",
		RunE: func(cmd *cobra.Command, _ []string) error {
			graph, err := c.api.GetStates(cmd.Context())
			if err != nil {
				return fmt.Errorf("error getting states: %w", err)
			}
			return printJSON(cmd, graph)
		},
	}
}
