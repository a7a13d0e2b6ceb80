package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/gateway"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the expenses API",
		Long: `Sign in with your e-mail and password. The token is kept in the local
database and used by every other command until you log out.

The password is read from the terminal without echo, or from the first line
of stdin when it is not a terminal.`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().StringP("email", "e", "", "account e-mail")

	return cmd
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (model.Session, error)
}

// SessionStore persists the sign-in.
type SessionStore interface {
	SaveSession(ctx context.Context, session model.Session) error
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			common.LogError(err, "failed to close local database", nil)
		}
	}()

	client, err := gateway.NewClient(cfg.APIURL)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		if email, err = promptLine(reader, cmd.ErrOrStderr(), "E-mail: "); err != nil {
			return err
		}
	}
	password, err := readPassword(reader, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	session, err := signIn(ctx, client, store, email, password)
	if err != nil {
		return err
	}

	name := session.UserName
	if name == "" {
		name = session.Email
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s\n", name)
	return nil
}

// signIn authenticates and stores the session.
func signIn(ctx context.Context, auth Authenticator, store SessionStore, email, password string) (model.Session, error) {
	session, err := auth.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return model.Session{}, err
	}
	if session.Email == "" {
		session.Email = strings.TrimSpace(email)
	}
	if err := store.SaveSession(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	common.LogInfo("signed in", common.Fields{"email": session.Email})
	return session, nil
}

func promptLine(reader *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func readPassword(reader *bufio.Reader, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(reader, io.Discard, "")
	}

	fmt.Fprint(w, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored sign-in and cached balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					common.LogError(err, "failed to close local database", nil)
				}
			}()

			if err := store.ClearSession(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
			return nil
		},
	}
}
