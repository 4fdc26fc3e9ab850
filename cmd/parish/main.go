package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csg33k/parish-services/internal/adapters/remote"
	"github.com/csg33k/parish-services/internal/config"
	"github.com/csg33k/parish-services/internal/console"
	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/logging"
	"github.com/csg33k/parish-services/internal/session"
)

// app holds what every subcommand shares once the root command has run its
// setup.
type app struct {
	out io.Writer
	in  io.Reader

	// flags
	cfgPath  string
	verbose  bool
	baseURL  string
	email    string
	password string

	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
	client  *remote.Client
	session *session.Context
	alerts  *console.Alerts
}

func newRootCmd(out io.Writer, in io.Reader) *cobra.Command {
	a := &app{out: out, in: in}
	root := &cobra.Command{
		Use:   "parish",
		Short: "Parish services: request sacraments, masses and certificates",
		Long: `parish submits service requests to the parish office: baptism,
confirmation, first communion, funeral mass, mass intentions (pamisa),
sick calls and certificate requests. It can also list and cancel the
requests filed under an email.

Run 'parish forms' to see every form and its fields.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(out)
	root.SetIn(in)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default $PARISH_CONFIG or parish.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.baseURL, "base-url", "", "Remote API base URL (overrides config)")
	pf.StringVar(&a.email, "email", "", "log in with this email first ($PARISH_EMAIL)")
	pf.StringVar(&a.password, "password", "", "password for --email ($PARISH_PASSWORD)")

	root.AddCommand(
		newFormsCmd(a),
		newSubmitCmd(a),
		newLoginCmd(a),
		newProfileCmd(a),
		newReservationsCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup() error {
	envErr := config.LoadDotEnv()
	if a.email == "" {
		a.email = os.Getenv("PARISH_EMAIL")
	}
	if a.password == "" {
		a.password = os.Getenv("PARISH_PASSWORD")
	}

	path := a.cfgPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	a.cfgFile = path
	a.cfg = cfg

	a.log, err = logging.New(cfg.Log, a.verbose)
	if err != nil {
		return err
	}
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		a.log.Warn("error loading .env file", zap.Error(envErr))
	}

	opts := []remote.Option{remote.WithLogger(a.log)}
	for t, u := range cfg.EndpointOverrides() {
		opts = append(opts, remote.WithEndpoint(t, u))
	}
	a.client = remote.New(cfg.API.BaseURL, opts...)
	a.session = session.New()
	a.alerts = console.NewAlerts(a.out, a.in)
	return nil
}

// login signs in with --email/--password when given. required makes a
// missing email an error.
func (a *app) login(ctx context.Context, required bool) error {
	if a.email == "" {
		if required {
			return errors.New("this command needs --email and --password (or PARISH_EMAIL and PARISH_PASSWORD)")
		}
		return nil
	}
	if _, err := a.session.Login(ctx, a.client, a.email, a.password); err != nil {
		msg := err.Error()
		var (
			apiErr *domain.APIError
			vErr   *domain.ValidationError
		)
		switch {
		case errors.As(err, &apiErr):
			msg = apiErr.Message
		case errors.As(err, &vErr):
			msg = vErr.Message
		}
		a.alerts.Alert(domain.Alert{Kind: domain.AlertError, Title: "Login Failed", Message: msg})
		return err
	}
	return nil
}

// alerted reports whether err has already been shown to the user as an alert.
func alerted(err error) bool {
	var (
		vErr   *domain.ValidationError
		netErr *domain.NetworkError
		mErr   *domain.MalformedResponseError
		apiErr *domain.APIError
		shown  *alertedError
	)
	return errors.As(err, &shown) || errors.As(err, &vErr) || errors.As(err, &netErr) || errors.As(err, &mErr) ||
		errors.As(err, &apiErr) ||
		errors.Is(err, domain.ErrEmptyResponse) ||
		errors.Is(err, domain.ErrLoginRequired) ||
		errors.Is(err, domain.ErrClosed)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stdin).ExecuteContext(ctx); err != nil {
		if !alerted(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
