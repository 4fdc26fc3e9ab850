package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csg33k/parish-services/internal/adapters/pdf"
	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/console"
	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/form"
	"github.com/csg33k/parish-services/internal/ports"
	"github.com/csg33k/parish-services/internal/templates"
)

const homeRoute = "Home"

type submitFlags struct {
	sets     []string
	na       []string
	yes      bool
	animate  bool
	pdfPath  string
	htmlPath string
}

func newSubmitCmd(a *app) *cobra.Command {
	var f submitFlags
	cmd := &cobra.Command{
		Use:   "submit <form-type>",
		Short: "Fill in, preview and submit a form",
		Example: `  parish submit pamisa \
    --set date=12/25/2025 --set time=8AM --set intention=Pasasalamat \
    --set name="Juan Dela Cruz" --set offeredBy="Maria Dela Cruz" --set donation=500

  parish submit baptismal_certificate --email juan@example.com --password ... \
    --set child_name="Ana Cruz" --na remarks --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSubmit(cmd.Context(), domain.FormType(args[0]), f)
		},
	}
	fl := cmd.Flags()
	fl.StringArrayVar(&f.sets, "set", nil, "field=value (repeatable)")
	fl.StringArrayVar(&f.na, "na", nil, "mark a field not applicable (repeatable)")
	fl.BoolVarP(&f.yes, "yes", "y", false, "submit without asking for confirmation")
	fl.BoolVar(&f.animate, "animate", false, "animate the preview transition")
	fl.StringVar(&f.pdfPath, "pdf", "", "also write the preview to this PDF file")
	fl.StringVar(&f.htmlPath, "html", "", "also write the preview to this HTML file")
	return cmd
}

func (a *app) runSubmit(ctx context.Context, t domain.FormType, f submitFlags) error {
	schema, ok := catalog.ForType(t)
	if !ok {
		return fmt.Errorf("unknown form type %q (run 'parish forms')", t)
	}
	if err := a.login(ctx, false); err != nil {
		return err
	}

	nav := console.NewNavigator(homeRoute)
	nav.Navigate(schema.Title)
	var anim ports.Animator = form.Immediate{}
	if f.animate {
		anim = console.Fader{Out: a.out}
	}
	ctl, err := form.New(form.Config{
		Schema:    schema,
		Submitter: a.client,
		Identity:  a.session,
		Alerts:    a.alerts,
		Navigator: nav,
		Animator:  anim,
		Logger:    a.log,
	})
	if err != nil {
		return err
	}
	defer ctl.Close()
	// Ctrl-C while a request is in flight closes the form instead of
	// reporting a network error.
	stop := context.AfterFunc(ctx, ctl.Close)
	defer stop()

	if err := applyFields(ctl, f.sets, f.na); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			a.alerts.Alert(domain.Alert{Kind: domain.AlertError, Title: "Invalid Input", Message: vErr.Label + ": " + vErr.Message})
		}
		return err
	}
	if err := ctl.OpenPreview(); err != nil {
		return err
	}

	p := ctl.Preview()
	fmt.Fprintf(a.out, "\n%s  (%s)\n\n%s\n", p.Title, p.Email, console.Table(p.Rows))
	if err := exportPreview(ctx, p, f.pdfPath, f.htmlPath); err != nil {
		return err
	}

	a.alerts.AssumeYes = f.yes
	if !a.alerts.Confirm("Submit", "Send this request to the parish?") {
		if ctl.Cancel() {
			fmt.Fprintf(a.out, "Request discarded. Back to %s.\n", nav.Current())
			return nil
		}
		ctl.ClosePreview()
		fmt.Fprintln(a.out, "Not submitted.")
		return nil
	}
	if err := ctl.Submit(ctx); err != nil {
		if errors.Is(err, domain.ErrClosed) {
			fmt.Fprintln(a.out, "Cancelled.")
		}
		return err
	}
	fmt.Fprintf(a.out, "Back to %s.\n", nav.Current())
	return nil
}

func applyFields(ctl *form.Controller, sets, na []string) error {
	for _, kv := range sets {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--set %q: want field=value", kv)
		}
		if err := ctl.SetField(strings.TrimSpace(name), value); err != nil {
			return err
		}
	}
	for _, name := range na {
		if err := ctl.SetFieldNotApplicable(strings.TrimSpace(name)); err != nil {
			return err
		}
	}
	return nil
}

func exportPreview(ctx context.Context, p domain.Preview, pdfPath, htmlPath string) error {
	if pdfPath != "" {
		if err := writeFile(pdfPath, func(f *os.File) error { return pdf.GeneratePreviewPDF(p, f) }); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
	}
	if htmlPath != "" {
		if err := writeFile(htmlPath, func(f *os.File) error { return templates.Preview(p).Render(ctx, f) }); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
	}
	return nil
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
