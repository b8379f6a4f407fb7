package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/moodjournal/internal/client/client"
	"github.com/dmitrijs2005/moodjournal/internal/client/config"
	"github.com/dmitrijs2005/moodjournal/internal/client/flight"
	"github.com/dmitrijs2005/moodjournal/internal/client/journal"
	"github.com/dmitrijs2005/moodjournal/internal/client/metrics"
	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodjournal/internal/client/services"
	"github.com/dmitrijs2005/moodjournal/internal/client/session"
	"github.com/dmitrijs2005/moodjournal/internal/client/theme"
	"github.com/dmitrijs2005/moodjournal/internal/logging"
)

type sessionManager interface {
	State() session.State
	CanAccess() bool
	Username() string
	Resume(ctx context.Context) error
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context) error
}

type submitter interface {
	Submit(ctx context.Context, content string) (journal.Submission, error)
	Reanalyze(ctx context.Context, entryID int64) (models.AnalysisResult, error)
}

type entryService interface {
	Fetch(ctx context.Context) (services.FetchResult, error)
	Remember(ctx context.Context, e models.JournalEntry) error
	Forget(ctx context.Context) error
}

type themeStore interface {
	Get(ctx context.Context) (theme.Mode, error)
	Set(ctx context.Context, m theme.Mode) error
	Toggle(ctx context.Context) (theme.Mode, error)
}

type exporter interface {
	Export(ctx context.Context, username string, list []models.JournalEntry) (string, error)
}

// App is the interactive client: the UI layer on top of the session
// manager, the submission orchestrator and the dashboard.
type App struct {
	config  *config.Config
	log     logging.Logger
	session sessionManager
	journal submitter
	entries entryService
	theme   themeStore
	backup  exporter
	metrics *metrics.Metrics
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time

	// draft keeps the last text that failed to submit; draftEntryID is set
	// when that text was saved but not analyzed.
	draft        string
	draftEntryID int64

	closers []func() error
}

// NewApp wires the client from cfg. The returned App owns the database,
// the HTTP client and the Redis connection; release them with Close.
func NewApp(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	log := logging.New(logging.ParseLevel(cfg.LogLevel))
	a := &App{
		config: cfg,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		now:    time.Now,
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("error connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
	}

	opts := []client.Option{client.WithTimeout(cfg.RequestTimeout), client.WithLogger(log)}
	if cfg.RateLimit > 0 {
		opts = append(opts, client.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	api, err := client.NewHTTPClient(cfg.ServerURL, opts...)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, api.Close)

	var store session.Store = session.NewSQLiteStore(db)
	if cfg.CredentialStore == config.StoreRedis {
		store = session.NewRedisStore(rdb, session.WithPrefix(cfg.RedisPrefix))
	}

	mgr := session.NewManager(store, api,
		session.WithVerifyOnResume(cfg.VerifyOnResume),
		session.WithLogger(log.With("component", "session")))
	api.SetTokenSource(mgr)

	var guard flight.Guard = flight.NewLocalGuard()
	if cfg.FlightBackend == config.FlightRedis {
		guard = flight.NewRedisGuard(rdb, cfg.RedisPrefix, flightTTL(cfg.RequestTimeout))
	}

	a.metrics = metrics.New()
	a.session = mgr
	a.journal = journal.NewOrchestrator(mgr, api,
		journal.WithGuard(guard),
		journal.WithRecorder(a.metrics),
		journal.WithLogger(log.With("component", "journal")))
	a.entries = services.NewEntryService(api, mgr, db, log.With("component", "entries"))
	a.theme = theme.NewStore(metadata.NewSQLiteRepository(db))

	var uploader services.Uploader
	if cfg.Backup.Bucket != "" {
		s3c, err := services.NewS3Uploader(ctx, services.BackupConfig(cfg.Backup))
		if err != nil {
			return nil, err
		}
		uploader = s3c
	}
	a.backup = services.NewBackupService(uploader, cfg.Backup.Bucket, log.With("component", "backup"))

	return a, nil
}

// flightTTL bounds how long a crashed client can block submissions: both
// phases plus a margin.
func flightTTL(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 2 * time.Minute
	}
	return 2*timeout + 10*time.Second
}

// Run resumes the stored session and serves the REPL until the user exits,
// stdin closes or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if a.config.MetricsAddr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, a.config.MetricsAddr, a.log); err != nil {
				a.log.Error(ctx, "metrics endpoint stopped", "error", err)
			}
		}()
	}

	if err := a.session.Resume(ctx); err != nil {
		a.log.Warn(ctx, "session not resumed", "error", err)
	}

	p := a.palette(ctx)
	printlnFn(p.Title.Render("Mood journal") + p.Muted.Render(" (type 'help' for commands)"))
	if a.session.CanAccess() {
		printlnFn("Welcome back, " + p.Label.Render(a.session.Username()) + ".")
	}

	runREPL(ctx, a, a.status, a.reader)
}

// Close releases everything NewApp opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) CanAccess() bool {
	return a.session.CanAccess()
}

func (a *App) status() string {
	if u := a.session.Username(); u != "" && a.session.CanAccess() {
		return fmt.Sprintf("(%s)", u)
	}
	return fmt.Sprintf("(%s)", a.session.State())
}

func (a *App) palette(ctx context.Context) theme.Palette {
	m, err := a.theme.Get(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to read theme preference", "error", err)
		m = theme.Dark
	}
	return theme.For(m)
}
