package users

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sm1l43s/movies/cmd/cmdutil"
	"github.com/sm1l43s/movies/internal/config"
	"github.com/sm1l43s/movies/internal/services/iam"
)

var (
	grantEmailFlag  string
	grantPrivileges []string
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Add privileges to an existing account",
	Long: `Adds privileges to an account, keeping the ones it already holds. Running
tokens pick up the change on their next request.

Example:
  movies users grant --email editor@example.com --privilege CREATE_MOVIE --privilege EDIT_MOVIE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		privileges := cmdutil.ExpandPrivileges(grantPrivileges)
		if len(privileges) == 0 {
			return fmt.Errorf("at least one --privilege must be specified")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		bundle, err := cmdutil.NewIAMServiceBundle(cfg, quietLogger())
		if err != nil {
			return err
		}
		defer bundle.Close()

		user, err := bundle.Service.GrantPrivileges(cmd.Context(), grantEmailFlag, privileges)
		if err != nil {
			if errors.Is(err, iam.ErrUnknownPrivilege) {
				return fmt.Errorf("%w\nValid privileges are: %s", err, strings.Join(cmdutil.PrivilegeNames(), ", "))
			}
			return fmt.Errorf("failed to grant privileges: %w", err)
		}

		fmt.Println("Privileges granted.")
		printUser(user)
		return nil
	},
}

var privilegesCmd = &cobra.Command{
	Use:   "privileges",
	Short: "List every known privilege",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range cmdutil.PrivilegeNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
