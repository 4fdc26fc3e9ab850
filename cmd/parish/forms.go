package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/domain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func newFormsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forms [form-type]",
		Short: "List the forms, or the fields of one form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(a.out, formsTable())
				return nil
			}
			s, ok := catalog.ForType(domain.FormType(args[0]))
			if !ok {
				return fmt.Errorf("unknown form type %q", args[0])
			}
			fmt.Fprintln(a.out, fieldsTable(s))
			return nil
		},
	}
}

func formsTable() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(cellStyle).
		Headers("TYPE", "FORM", "LOGIN", "ENDPOINT")
	for _, s := range catalog.All() {
		login := ""
		if s.RequiresLogin {
			login = "required"
		}
		t.Row(string(s.Type), s.Title, login, s.Path)
	}
	return t.Render()
}

func fieldsTable(s *catalog.Schema) string {
	required := map[string]bool{}
	for _, name := range s.RequiredFields() {
		required[name] = true
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(cellStyle).
		Headers("FIELD", "LABEL", "REQUIRED", "FORMAT")
	for _, f := range s.Fields {
		req := ""
		if required[f.Name] {
			req = "yes"
		}
		t.Row(f.Name, f.Label, req, fieldFormat(f))
	}
	return s.Title + "\n" + t.Render()
}

func fieldFormat(f catalog.Field) string {
	var parts []string
	switch f.Kind {
	case catalog.Numeric:
		parts = append(parts, "digits")
	case catalog.Date, catalog.Time:
		parts = append(parts, f.Format)
	}
	if f.Pattern != "" {
		parts = append(parts, f.Pattern)
	}
	return strings.Join(parts, " ")
}

func cellStyle(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return lipgloss.NewStyle().Padding(0, 1)
}
