package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/saulo-duarte/chronos-goals/internal/auth"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/saulo-duarte/chronos-goals/internal/settings"
	"github.com/saulo-duarte/chronos-goals/internal/storage/remote"
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoMergePending       = errors.New("there are no local goals waiting to be merged")
	ErrNotOnline            = errors.New("this action needs a signed-in online session")
	ErrCannotGoOffline      = errors.New("offline mode can only be chosen before signing in")
	ErrSettingsNotPersisted = errors.New("settings were not persisted")
)

// LocalStore is the device storage the controller reads flags from and falls
// back to whenever the remote store is not in charge.
type LocalStore interface {
	goal.Backend
	settings.Store
	HasSeenWelcome(ctx context.Context) (bool, error)
	SetHasSeenWelcome(ctx context.Context, seen bool) error
	OfflineMode(ctx context.Context) (bool, error)
	SetOfflineMode(ctx context.Context, offline bool) error
}

type Deps struct {
	Local    LocalStore
	Remote   remote.Repository // nil when no remote database is configured
	Provider auth.Provider
	Today    func() util.Date
}

// Status is the session as reported to clients.
type Status struct {
	Phase          Phase  `json:"phase"`
	Email          string `json:"email,omitempty"`
	Offline        bool   `json:"offline"`
	Backend        string `json:"backend,omitempty"`
	Degraded       bool   `json:"degraded"`
	MergePending   bool   `json:"mergePending"`
	HasSeenWelcome bool   `json:"hasSeenWelcome"`
}

type MergeResult struct {
	Goals int `json:"goals"`
}

// Controller owns the session state and the goal store of the strategy that
// state selects. It implements goal.Workspace.
type Controller struct {
	local    LocalStore
	remote   remote.Repository
	provider auth.Provider
	today    func() util.Date

	mu             sync.Mutex
	ctx            context.Context
	state          State
	store          *goal.Store
	strategy       string
	degraded       bool
	settingsStore  settings.Store
	settings       settings.Settings
	mergePending   bool
	hasSeenWelcome bool
	unsubscribe    func()
}

func NewController(deps Deps) *Controller {
	today := deps.Today
	if today == nil {
		today = util.Today
	}
	return &Controller{
		local:         deps.Local,
		remote:        deps.Remote,
		provider:      deps.Provider,
		today:         today,
		state:         Initial(false),
		settingsStore: deps.Local,
		settings:      settings.Default(),
	}
}

// Start reads the persisted flags and subscribes to the identity provider.
// The provider reports its current user right away, which moves the session
// out of the loading phase.
func (c *Controller) Start(ctx context.Context) error {
	log := config.WithContext(ctx)

	offline, err := c.local.OfflineMode(ctx)
	if err != nil {
		return fmt.Errorf("read offline flag: %w", err)
	}
	seen, err := c.local.HasSeenWelcome(ctx)
	if err != nil {
		log.WithError(err).Warn("Could not read welcome flag")
	}

	c.mu.Lock()
	c.ctx = ctx
	c.state = Initial(offline)
	c.hasSeenWelcome = seen
	c.mu.Unlock()

	unsubscribe := c.provider.Subscribe(func(id *auth.Identity) {
		c.dispatch(c.baseContext(), Event{Kind: AuthChanged, User: id})
	})

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

func (c *Controller) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) Goals(ctx context.Context) (*goal.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil, goal.ErrNoActiveStore
	}
	return c.store, nil
}

func (c *Controller) Today() util.Date {
	return c.today()
}

func (c *Controller) Login(ctx context.Context, email, password string) (Status, error) {
	id, err := c.provider.Login(ctx, email, password)
	if err != nil {
		return c.Status(), err
	}
	return c.signIn(ctx, id), nil
}

// Register creates the account and its settings document, then signs in.
func (c *Controller) Register(ctx context.Context, email, password string) (Status, error) {
	id, err := c.provider.Register(ctx, email, password)
	if err != nil {
		return c.Status(), err
	}
	if c.remote != nil {
		if err := c.remote.CreateUserDocument(ctx, id.UserID, id.Email, settings.Default()); err != nil {
			config.WithContext(ctx).WithError(err).WithField("user_id", id.UserID).Error("Failed to create user settings document")
		}
	}
	return c.signIn(ctx, id), nil
}

// signIn drops the offline override, in memory and on the device, so a
// restart with the restored session comes back online.
func (c *Controller) signIn(ctx context.Context, id *auth.Identity) Status {
	wasOffline := c.State().Offline
	st := c.dispatch(ctx, Event{Kind: SignedIn, User: id})
	if wasOffline && !st.Offline {
		if err := c.local.SetOfflineMode(ctx, false); err != nil {
			config.WithContext(ctx).WithError(err).Warn("Failed to clear offline flag")
		}
	}
	return st
}

// Logout signs out and clears the offline override so the next start asks
// for an account again.
func (c *Controller) Logout(ctx context.Context) (Status, error) {
	if err := c.provider.Logout(ctx); err != nil {
		return c.Status(), err
	}
	if err := c.local.SetOfflineMode(ctx, false); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Failed to clear offline flag")
	}
	return c.dispatch(ctx, Event{Kind: SignedOut}), nil
}

func (c *Controller) ContinueOffline(ctx context.Context) (Status, error) {
	st := c.dispatch(ctx, Event{Kind: ContinueOffline})
	if st.Phase != PhaseOffline {
		return st, ErrCannotGoOffline
	}
	if err := c.local.SetOfflineMode(ctx, true); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Offline mode active but not remembered for the next start")
	}
	return st, nil
}

func (c *Controller) CompleteWelcome(ctx context.Context) (Status, error) {
	if err := c.local.SetHasSeenWelcome(ctx, true); err != nil {
		return c.Status(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasSeenWelcome = true
	return c.statusLocked(), nil
}

// Activate runs the daily rollover on the active store. Clients call it when
// the app comes to the foreground.
func (c *Controller) Activate(ctx context.Context) (int, error) {
	store, err := c.Goals(ctx)
	if err != nil {
		return 0, err
	}
	return store.Rollover(ctx, c.today())
}

// Merge copies the local settings and every local goal into the remote store
// of the signed-in user, then reloads the remote collection. Goals keep their
// local id, so merging the same goals twice overwrites them instead of
// adding copies.
func (c *Controller) Merge(ctx context.Context) (MergeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mergePending {
		return MergeResult{}, ErrNoMergePending
	}
	if !c.state.Remote() || c.remote == nil {
		return MergeResult{}, ErrNotOnline
	}
	log := config.WithContext(ctx).WithField("user_id", c.state.User.UserID)
	target := remote.NewUserBackend(c.remote, c.state.User.UserID)

	localSettings, err := c.local.LoadSettings(ctx)
	if err != nil {
		return MergeResult{}, fmt.Errorf("read local settings: %w", err)
	}
	localGoals, err := c.local.LoadGoals(ctx)
	if err != nil {
		return MergeResult{}, fmt.Errorf("read local goals: %w", err)
	}

	if err := target.SaveSettings(ctx, localSettings); err != nil {
		log.WithError(err).Error("Merge failed writing settings")
		return MergeResult{}, fmt.Errorf("merge settings: %w", err)
	}
	for i, g := range localGoals {
		if err := target.ImportGoal(ctx, g); err != nil {
			log.WithError(err).WithField("goal_id", g.ID).Error("Merge failed writing goal")
			return MergeResult{Goals: i}, fmt.Errorf("merge goal %s: %w", g.ID, err)
		}
	}
	c.mergePending = false

	log.WithField("goals", len(localGoals)).Info("Local goals merged into remote store")
	c.activateLocked(ctx, c.state)
	return MergeResult{Goals: len(localGoals)}, nil
}

func (c *Controller) DeclineMerge(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mergePending {
		return ErrNoMergePending
	}
	c.mergePending = false
	return nil
}

func (c *Controller) Settings() settings.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// UpdateSettings applies dto and writes the result through the active
// settings store. A failed write keeps the new values for this session.
func (c *Controller) UpdateSettings(ctx context.Context, dto settings.UpdateSettingsDTO) (settings.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := dto.Apply(c.settings)
	if err != nil {
		return c.settings, err
	}
	c.settings = next

	if err := c.settingsStore.SaveSettings(ctx, next); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Settings kept in memory but not persisted")
		return next, fmt.Errorf("%w: %v", ErrSettingsNotPersisted, err)
	}
	return next, nil
}

// Identity returns the signed-in user of an online session.
func (c *Controller) Identity() (*auth.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseOnline || !c.state.Remote() {
		return nil, ErrNotOnline
	}
	return c.state.User, nil
}

func (c *Controller) baseContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Controller) dispatch(ctx context.Context, e Event) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state
	next := Next(prev, e)
	c.state = next

	if prev.Phase != next.Phase {
		config.WithContext(ctx).WithFields(logrus.Fields{
			"from": prev.Phase,
			"to":   next.Phase,
		}).Info("Session phase changed")
	}

	if offersMerge(prev, next) {
		c.offerMergeLocked(ctx)
	} else if next.Phase != PhaseOnline {
		c.mergePending = false
	}

	if strategyKey(next) != c.strategy {
		c.activateLocked(ctx, next)
	}
	return c.statusLocked()
}

func (c *Controller) offerMergeLocked(ctx context.Context) {
	goals, err := c.local.LoadGoals(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Could not read local goals to offer a merge")
		return
	}
	c.mergePending = len(goals) > 0
}

// activateLocked builds the goal store for st: it picks the backend, loads
// the goals and settings and runs the daily rollover.
func (c *Controller) activateLocked(ctx context.Context, st State) {
	log := config.WithContext(ctx)
	c.strategy = strategyKey(st)
	c.degraded = false

	if !st.Ready() {
		c.store = nil
		c.settingsStore = c.local
		c.loadSettingsLocked(ctx)
		return
	}

	var backend goal.Backend = c.local
	c.settingsStore = c.local
	if st.Remote() && c.remote != nil {
		rb := remote.NewUserBackend(c.remote, st.User.UserID)
		backend = rb
		c.settingsStore = rb
	}

	goals, err := backend.LoadGoals(ctx)
	if err != nil && backend.Name() != c.local.Name() {
		log.WithError(err).Warn("Remote goals unavailable, using local storage for this session")
		c.degraded = true
		backend = c.local
		c.settingsStore = c.local
		goals, err = c.local.LoadGoals(ctx)
	}
	if err != nil {
		log.WithError(err).Error("Failed to load goals, starting with an empty collection")
		goals = nil
	}

	c.store = goal.NewStore(backend, goals)
	c.loadSettingsLocked(ctx)

	if _, err := c.store.Rollover(ctx, c.today()); err != nil {
		log.WithError(err).Warn("Rollover changes not fully persisted")
	}

	log.WithFields(logrus.Fields{
		"backend": backend.Name(),
		"goals":   len(goals),
	}).Info("Goal store activated")
}

func (c *Controller) loadSettingsLocked(ctx context.Context) {
	s, err := c.settingsStore.LoadSettings(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Failed to load settings, using defaults")
		s = settings.Default()
	}
	c.settings = s
}

func (c *Controller) statusLocked() Status {
	st := Status{
		Phase:          c.state.Phase,
		Offline:        c.state.Offline,
		Degraded:       c.degraded,
		MergePending:   c.mergePending,
		HasSeenWelcome: c.hasSeenWelcome,
	}
	if c.state.User != nil {
		st.Email = c.state.User.Email
	}
	if c.store != nil {
		st.Backend = c.store.Backend().Name()
	}
	return st
}

// strategyKey names the goal store a state needs. Equal keys share a store.
func strategyKey(st State) string {
	switch {
	case !st.Ready():
		return ""
	case st.Remote():
		return remote.BackendName + ":" + st.User.UserID.String()
	default:
		return "local"
	}
}
