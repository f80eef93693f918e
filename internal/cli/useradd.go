package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/msomdec/ekaksh/internal/repository"
	"github.com/msomdec/ekaksh/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Terminal access, replaced in tests.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

func newUseraddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "useradd <username>",
		Short: "Register a user from the terminal",
		Long: `useradd registers a user directly in the credential store.

The password is prompted for twice without echo. When stdin is not a
terminal a single line is read from it and used for both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.ValidateDatabase(); err != nil {
				return err
			}

			password, confirm, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			store, err := repository.Open(cmd.Context(), opts.cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.DB.Close()

			if err := store.DB.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			auth := service.NewAuthService(store.Users, opts.cfg.Auth.BcryptCost, nil)
			user, err := auth.Register(cmd.Context(), args[0], password, confirm)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %q created (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
}

func promptPassword(in io.Reader, prompt io.Writer) (string, string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", "", err
		}
		fmt.Fprint(prompt, "Confirm password: ")
		confirm, err := readPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", "", err
		}
		return string(pw), string(confirm), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	return pw, pw, nil
}
