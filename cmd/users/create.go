package users

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sm1l43s/movies/cmd/cmdutil"
	"github.com/sm1l43s/movies/internal/auth"
	"github.com/sm1l43s/movies/internal/config"
	"github.com/sm1l43s/movies/internal/db/models"
	"github.com/sm1l43s/movies/internal/services/iam"
)

var (
	emailFlag       string
	firstNameFlag   string
	lastNameFlag    string
	passwordFlag    string
	privilegesInput []string
	stdinFlag       bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	Long: `Create an account with an explicit privilege set. Use this to bootstrap the
first administrator, since self sign-up only grants the default privileges.

Example:
  movies users create --email admin@example.com --privilege all --stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}

		password := passwordFlag
		if stdinFlag {
			// Read password from stdin
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}
		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		privileges := cmdutil.ExpandPrivileges(privilegesInput)
		if len(privileges) == 0 {
			for _, p := range auth.SignupPermissions() {
				privileges = append(privileges, string(p))
			}
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

		user, err := bundle.Service.CreateUser(cmd.Context(), iam.CreateUserRequest{
			SignUpRequest: iam.SignUpRequest{
				Email:     emailFlag,
				Password:  password,
				FirstName: firstNameFlag,
				LastName:  lastNameFlag,
			},
			Privileges: privileges,
		})
		if err != nil {
			if errors.Is(err, iam.ErrUnknownPrivilege) {
				return fmt.Errorf("%w\nValid privileges are: %s", err, strings.Join(cmdutil.PrivilegeNames(), ", "))
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Println("User created successfully!")
		printUser(user)
		return nil
	},
}

func printUser(user *models.User) {
	fmt.Println("----------------------------------------")
	fmt.Printf("User ID: %d\n", user.ID)
	fmt.Printf("Email: %s\n", user.Email)
	if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
		fmt.Printf("Name: %s\n", name)
	}
	fmt.Printf("Privileges: %s\n", strings.Join(user.PrivilegeNames(), ", "))
	fmt.Println("----------------------------------------")
}

// quietLogger keeps service logs off the command output unless something breaks.
func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}
