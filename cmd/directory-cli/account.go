package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"servicedirectory/pkg/client"
)

// readPassword takes the password from the flag or, when "-", from the first
// line of stdin.
func readPassword(in io.Reader, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newRegisterCmd(opts *globalOptions) *cobra.Command {
	var form client.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if form.Password, err = readPassword(cmd.InOrStdin(), form.Password); err != nil {
				return err
			}
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			msg, err := c.Register(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "display name (unique)")
	cmd.Flags().StringVar(&form.Mobile, "mobile", "", "mobile number")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", `password, or "-" to read it from stdin`)
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password confirmation (default: same as --password)")
	return cmd
}

func newLoginCmd(opts *globalOptions) *cobra.Command {
	var form client.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if form.Password, err = readPassword(cmd.InOrStdin(), form.Password); err != nil {
				return err
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			session, err := c.Login(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s until %s\n", session.Email, session.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", `password, or "-" to read it from stdin`)
	return cmd
}

func newLogoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			session, err := c.Sessions().Load()
			if err != nil {
				return err
			}

			if refresh && session.RefreshToken != "" && !session.LoggedIn(time.Now()) {
				if err := c.Refresh(cmd.Context()); err != nil {
					return err
				}
				if session, err = c.Sessions().Load(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if session.LoggedIn(time.Now()) {
				fmt.Fprintf(out, "Logged in as %s until %s\n", session.Email, session.ExpiresAt.Local().Format(time.RFC1123))
			} else {
				fmt.Fprintln(out, "Not logged in.")
			}
			if session.Pincode != "" {
				fmt.Fprintf(out, "Last postal code: %s\n", session.Pincode)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "renew an expired access token with the stored refresh token")
	return cmd
}
