package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applytrack/applytrack/pkg/api/v1/client"
	"github.com/applytrack/applytrack/pkg/api/v1/handlers"
)

// Flag names
const (
	flagName    = "name"
	flagWebsite = "website"
)

func (c *cli) companiesCmd() *cobra.Command {
	companiesCmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage companies",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := cmd.Flags().GetInt(flagPage)
			if err != nil {
				return fmt.Errorf("error getting page flag: %w", err)
			}
			companies, err := c.api.ListCompanies(cmd.Context(), client.ListParams{Page: page})
			if err != nil {
				return fmt.Errorf("error listing companies: %w", err)
			}
			return printJSON(cmd, companies)
		},
	}
	listCmd.Flags().IntP(flagPage, "p", 1, "Page number for pagination")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, err := cmd.Flags().GetString(flagName)
			if err != nil {
				return fmt.Errorf("error getting name flag: %w", err)
			}
			website, err := cmd.Flags().GetString(flagWebsite)
			if err != nil {
				return fmt.Errorf("error getting website flag: %w", err)
			}
			company, err := c.api.CreateCompany(cmd.Context(), handlers.CreateCompanyParams{Name: name, Website: website})
			if err != nil {
				return fmt.Errorf("error creating company: %w", err)
			}
			return printJSON(cmd, company)
		},
	}
	createCmd.Flags().StringP(flagName, "n", "", "Company name")
	createCmd.Flags().StringP(flagWebsite, "w", "", "Company website")
	if err := createCmd.MarkFlagRequired(flagName); err != nil {
		panic(fmt.Errorf("failed to mark name flag as required for create company command: %w", err))
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a company no application references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.api.DeleteCompany(cmd.Context(), id); err != nil {
				return fmt.Errorf("error deleting company: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company %d deleted\n", id)
			return nil
		},
	}

	companiesCmd.AddCommand(listCmd, createCmd, deleteCmd)
	return companiesCmd
}
