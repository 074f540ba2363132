// Package commands implements the applytrack command line interface
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/applytrack/applytrack/internal/constants"
	"github.com/applytrack/applytrack/pkg/api/v1/client"
	"github.com/applytrack/applytrack/pkg/api/v1/routes"
)

// flag names
const (
	flagOwnerID       = "owner-id"
	flagServerAddress = "server-address"
	flagTimeout       = "timeout"
	flagPage          = "page"
)

// cli carries the state shared by one command tree
type cli struct {
	serverAddress string
	ownerID       string
	timeout       time.Duration
	api           client.Client
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "applytrack",
		Short: "applytrack CLI - track job applications through the hiring pipeline",
		Long: `applytrack is a command line tool for recording job applications, moving them
through the hiring pipeline and reading the analytics derived from their history.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.serverAddress, flagServerAddress, "s", routes.DefaultBaseURL,
		"Address of the applytrack API server (env: "+constants.EnvServerAddress+")")
	root.PersistentFlags().StringVarP(&c.ownerID, flagOwnerID, "o", "",
		"Owner ID sent with every request (env: "+constants.EnvOwnerID+")")
	root.PersistentFlags().DurationVar(&c.timeout, flagTimeout, client.DefaultTimeout, "Request timeout")

	root.AddCommand(c.companiesCmd())
	root.AddCommand(c.applicationsCmd())
	root.AddCommand(c.transitionsCmd())
	root.AddCommand(c.analyticsCmd())
	return root
}

// Execute runs the root command against os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

// init resolves flag > env > default precedence and creates the API client
func (c *cli) init(cmd *cobra.Command) error {
	if !cmd.Flags().Changed(flagServerAddress) {
		if envAddr := os.Getenv(constants.EnvServerAddress); envAddr != "" {
			c.serverAddress = envAddr
		}
	}
	if !cmd.Flags().Changed(flagOwnerID) {
		c.ownerID = os.Getenv(constants.EnvOwnerID)
	}

	if c.serverAddress == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if strings.TrimSpace(c.ownerID) == "" {
		return fmt.Errorf("required flag(s) \"%s\" not set", flagOwnerID)
	}

	var err error
	c.api, err = client.NewClient(&client.Options{
		BaseURL: c.serverAddress,
		Timeout: c.timeout,
		OwnerID: c.ownerID,
	})
	return err
}

// printJSON pretty prints v to the command's output
func printJSON(cmd *cobra.Command, v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return nil
}

// parseID parses a positional numeric id
func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(id), nil
}

// parseTime accepts RFC 3339 timestamps or plain dates, read as UTC midnight
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339 or YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}
