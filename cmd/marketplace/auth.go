package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"marketplace/client/internal/models"
)

func loginCmd(g *globals) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			session, err := a.Session.Login(commandContext(cmd), models.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "signed in as %s (%s)", session.User.Name, session.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func registerCmd(g *globals) *cobra.Command {
	var req models.RegisterRequest
	var role string

	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create an account and sign in",
		Example: `  marketplace register --name Sam --email sam@example.com --password secret --role seller`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = models.UserRole(role)
			if !req.Role.Valid() {
				return fmt.Errorf("role must be %q or %q", models.UserRoleClient, models.UserRoleSeller)
			}
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			session, err := a.Session.Register(commandContext(cmd), req)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "registered %s as %s", session.User.Email, session.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Account password")
	cmd.Flags().StringVar(&role, "role", string(models.UserRoleClient), "client or seller")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			if err := a.Session.Logout(commandContext(cmd)); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func whoamiCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app(cmd)
			if err != nil {
				return err
			}
			user := a.Session.User().Get()
			if user == nil {
				return errors.New("not signed in")
			}
			if g.jsonOutput {
				return printJSON(cmd.OutOrStdout(), user)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nid:   %s\nrole: %s\n", user.Name, user.Email, user.ID, user.Role)
			return nil
		},
	}
}
