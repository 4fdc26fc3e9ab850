package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/reservation"
)

func newReservationsCmd(a *app) *cobra.Command {
	var forEmail string
	cmd := &cobra.Command{
		Use:     "reservations",
		Aliases: []string{"res"},
		Short:   "List or cancel the requests filed under an email",
	}
	cmd.PersistentFlags().StringVar(&forEmail, "for", "", "email to look up (defaults to --email)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.loadReservations(cmd.Context(), forEmail)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, reservationsTable(l.Items()))
			return nil
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id> <type>",
		Short: "Cancel a reservation; type is the collection tag shown by list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.loadReservations(cmd.Context(), forEmail)
			if err != nil {
				return err
			}
			a.alerts.AssumeYes = yes
			if !a.alerts.Confirm("Delete Reservation", "Are you sure you want to delete reservation "+args[0]+"?") {
				return nil
			}
			if err := l.Delete(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, reservationsTable(l.Items()))
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking for confirmation")

	cmd.AddCommand(list, del)
	return cmd
}

func (a *app) loadReservations(ctx context.Context, forEmail string) (*reservation.Lister, error) {
	if err := a.login(ctx, false); err != nil {
		return nil, err
	}
	l := reservation.New(a.client, a.session, a.alerts, a.log)
	if err := l.Load(ctx, forEmail); err != nil {
		title, msg := "Error", "Could not load reservations: "+err.Error()
		if errors.Is(err, domain.ErrNoEmail) {
			title, msg = "No Email", "Pass --for or log in with --email to list reservations."
		}
		a.alerts.Alert(domain.Alert{Kind: domain.AlertError, Title: title, Message: msg})
		return nil, &alertedError{err}
	}
	return l, nil
}

func reservationsTable(items []domain.Reservation) string {
	if len(items) == 0 {
		return "No reservations found."
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(cellStyle).
		Headers("ID", "TYPE", "SERVICE", "DATE", "TIME", "STATUS")
	for _, it := range items {
		t.Row(it.ID, it.Type, it.Service, it.Date, it.Time, string(it.Status))
	}
	return t.Render()
}

// alertedError marks an error the user has already seen.
type alertedError struct{ err error }

func (e *alertedError) Error() string { return e.err.Error() }
func (e *alertedError) Unwrap() error { return e.err }
