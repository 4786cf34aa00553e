package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/client/config"
	"github.com/dmitrijs2005/physiokeeper/internal/client/credstore"
	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
	"github.com/dmitrijs2005/physiokeeper/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	store  credstore.Store
	closer io.Closer

	mgr        *session.Manager
	auth       services.AuthService
	dashboard  services.DashboardService
	exercises  services.ExerciseService
	history    services.HistoryService
	profile    services.ProfileService
	password   services.PasswordService
	reactivate services.ReactivateService
	analytics  services.AnalyticsService
	chat       services.ChatService

	week   services.Week
	now    func() time.Time
	reader *bufio.Reader
	out    io.Writer

	// mu guards userName and pending; session callbacks may arrive from a
	// refresh that outlived an interrupted command.
	mu       sync.Mutex
	userName string
	pending  []services.Alert
}

// NewApp opens the sealed credential store and builds the services on top
// of one session manager.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, level)

	store, err := credstore.Open(ctx, c.StorePath, c.KeyPath, log)
	if err != nil {
		log.Error(ctx, "error opening credential store", "error", err)
		return nil, err
	}

	app := newApp(c, store, log, bufio.NewReader(os.Stdin), os.Stdout)
	app.closer = store
	return app, nil
}

func newApp(c *config.Config, store credstore.Store, log logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	a := &App{
		config: c,
		log:    log,
		store:  store,
		now:    time.Now,
		reader: reader,
		out:    out,
	}

	a.mgr = session.NewManager(store, session.Options{
		BaseURL:        c.APIBaseURL,
		RequestTimeout: c.RequestTimeout,
		LoginTimeout:   c.LoginTimeout,
		Notifier:       a,
		Logger:         log,
	})
	a.auth = services.NewAuthService(a.mgr)
	a.dashboard = services.NewDashboardService(a.mgr)
	a.exercises = services.NewExerciseService(a.mgr)
	a.history = services.NewHistoryService(a.mgr)
	a.profile = services.NewProfileService(a.mgr)
	a.password = services.NewPasswordService(a.mgr)
	a.reactivate = services.NewReactivateService(a.mgr)
	a.analytics = services.NewAnalyticsService(a.mgr)
	a.chat = services.NewChatService(a.mgr)
	a.week = services.CurrentWeek(a.now())

	a.mgr.State().Subscribe(func(authenticated bool) {
		if !authenticated {
			a.setUserName("")
		}
	})
	return a
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closer == nil {
			return
		}
		if err := a.closer.Close(); err != nil {
			a.log.Error(ctx, "error closing credential store", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.mgr.State().IsAuthenticated()
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) currentUserName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName
}

// LoginRequired implements session.Notifier. The alert is queued and
// printed by drainAlerts on the command goroutine.
func (a *App) LoginRequired(context.Context) {
	a.queueAlert(services.AlertLoginRequired)
}

// SessionExpired implements session.Notifier.
func (a *App) SessionExpired(context.Context) {
	a.queueAlert(services.AlertSessionExpired)
}

func (a *App) queueAlert(al services.Alert) {
	a.mu.Lock()
	a.pending = append(a.pending, al)
	a.mu.Unlock()
}

// drainAlerts prints the queued session alerts.
func (a *App) drainAlerts() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	for _, al := range pending {
		a.alert(al)
	}
}

func (a *App) alert(al services.Alert) {
	fmt.Fprintf(a.out, "[%s] %s\n", al.Title, al.Message)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
