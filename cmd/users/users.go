package users

import "github.com/spf13/cobra"

// UsersCmd is the parent command for account management operations
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts and privileges",
	Long:  `Commands for creating accounts and granting privileges directly against the database.`,
}

func init() {
	createCmd.Flags().StringVar(&emailFlag, "email", "", "Email address of the user")
	createCmd.Flags().StringVar(&firstNameFlag, "first-name", "", "First name of the user")
	createCmd.Flags().StringVar(&lastNameFlag, "last-name", "", "Last name of the user")
	createCmd.Flags().StringVar(&passwordFlag, "password", "", "Password for the user (use --stdin to avoid shell history)")
	createCmd.Flags().StringSliceVar(&privilegesInput, "privilege", []string{}, `Privilege(s) to grant, or "all" (defaults to the sign-up set)`)
	createCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read password from stdin instead of --password flag")

	grantCmd.Flags().StringVar(&grantEmailFlag, "email", "", "Email address of the user")
	grantCmd.Flags().StringSliceVar(&grantPrivileges, "privilege", []string{}, `Privilege(s) to add, or "all"`)
	_ = grantCmd.MarkFlagRequired("email")

	UsersCmd.AddCommand(createCmd)
	UsersCmd.AddCommand(grantCmd)
	UsersCmd.AddCommand(privilegesCmd)
}
