package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/spf13/cobra"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// getPassword is swapped in tests.
var getPassword = GetPassword

// credentials asks for whatever is missing. With confirm set the password
// is typed twice.
func (a *App) credentials(username string, confirm bool) (string, []byte, error) {
	if username == "" {
		u, err := GetSimpleText(a.reader, "Username", a.out)
		if err != nil {
			return "", nil, err
		}
		username = u
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return "", nil, err
	}
	if !confirm {
		return username, password, nil
	}

	again, err := getPassword(a.out, "Repeat password")
	if err != nil {
		common.WipeByteArray(password)
		return "", nil, err
	}
	defer common.WipeByteArray(again)
	if string(again) != string(password) {
		common.WipeByteArray(password)
		return "", nil, ErrPasswordMismatch
	}
	return username, password, nil
}

func newRegisterCmd(ref *appRef) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a sync account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			user, password, err := a.credentials(username, true)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			if err := a.authService.Register(cmd.Context(), user, password); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Account created. Run `daybook login` to start syncing.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	return cmd
}

func newLoginCmd(ref *appRef) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			user, password, err := a.credentials(username, false)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			if err := a.authService.Login(cmd.Context(), user, password); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", user)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	return cmd
}

func newLogoutCmd(ref *appRef) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; local entries are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ref.get()
			if err != nil {
				return err
			}
			if err := a.authService.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}
