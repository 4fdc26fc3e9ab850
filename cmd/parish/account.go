package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csg33k/parish-services/internal/console"
	"github.com/csg33k/parish-services/internal/domain"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the parish server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.login(cmd.Context(), true); err != nil {
				return err
			}
			u, _ := a.session.User()
			name := u.Name
			if name == "" {
				name = u.Email
			}
			a.alerts.Alert(domain.Alert{Kind: domain.AlertSuccess, Title: "Welcome", Message: "Logged in as " + name + "."})
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the profile of the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.login(cmd.Context(), true); err != nil {
				return err
			}
			u, _ := a.session.User()
			fmt.Fprint(a.out, console.Table(profileRows(u)))
			return nil
		},
	}
}

func profileRows(u domain.LoggedInUser) []domain.PreviewRow {
	rows := []domain.PreviewRow{
		{Label: "Email", Value: u.Email},
		{Label: "Name", Value: u.Name},
		{Label: "Contact Number", Value: u.ContactNumber},
		{Label: "Address", Value: u.CompleteAddress},
	}
	if u.ProfilePicture != "" {
		rows = append(rows, domain.PreviewRow{Label: "Picture", Value: u.ProfilePicture})
	}
	return rows
}
