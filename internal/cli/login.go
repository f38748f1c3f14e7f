package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return loginRun(cmd.Context())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return logoutRun()
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func loginRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	email := loginEmail
	if email == "" {
		answer, err := ui.Ask("Email:")
		if err != nil {
			return err
		}
		email = answer
	}

	password := loginPassword
	if password == "" {
		pw, err := readPassword()
		if err != nil {
			return err
		}
		password = pw
	}

	result, err := newClient().Login(ctx, email, password, "reviewctl")
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := saveToken(result.AccessToken); err != nil {
		return err
	}
	ui.Success("Signed in as %s", cyan(result.User.Email))
	return nil
}

func logoutRun() error {
	if cfg.Token == "" {
		ui.Info("Not signed in.")
		return nil
	}
	if err := saveToken(""); err != nil {
		return err
	}
	ui.Success("Signed out")
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(ui.Out, "Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(ui.Out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}
	return ui.Ask("Password:")
}

func saveToken(token string) error {
	cfgStore.Set("token", token)
	cfg.Token = token

	path := cfgStore.ConfigFileUsed()
	if path == "" {
		p, err := configPathFunc()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := cfgStore.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
