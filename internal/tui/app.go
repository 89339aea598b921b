package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/coinboard/internal/browse"
	"github.com/mmcdole/coinboard/internal/config"
	"github.com/mmcdole/coinboard/internal/domain"
	"github.com/mmcdole/coinboard/internal/service"
	"github.com/mmcdole/coinboard/internal/tui/components"
	"github.com/mmcdole/coinboard/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

const (
	tickInterval = 100 * time.Millisecond
	statusTTL    = 4 * time.Second
)

// coinView is the surface shared by the table and the cards
type coinView interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
	Selected() (domain.Coin, bool)
	ToggleFilter()
	ClearFilter()
	IsFiltering() bool
	IsFilterTyping() bool
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	MarketSvc    *service.MarketService
	FavoritesSvc *service.FavoritesService

	// Configuration; ConfigPath empty means the theme is not persisted
	Config     config.Config
	ConfigPath string

	// Paging controllers
	Pager *browse.Pager
	Feed  *browse.Feed

	// UI components
	Table *components.CoinTable
	Cards *components.CoinCards

	// Dimensions
	Width  int
	Height int

	// UI state
	Layout        config.Layout
	FavoritesOnly bool
	Dark          bool
	StatusMsg     string
	StatusIsErr   bool
	statusUntil   time.Time
	SpinnerFrame  int
}

// NewModel creates a new application model
func NewModel(
	marketSvc *service.MarketService,
	favoritesSvc *service.FavoritesService,
	cfg *config.Config,
	configPath string,
) Model {
	styles.SetTheme(cfg.IsDark())

	m := Model{
		State:        StateBrowsing,
		MarketSvc:    marketSvc,
		FavoritesSvc: favoritesSvc,
		Config:       *cfg,
		ConfigPath:   configPath,
		Pager:        browse.NewPager(cfg.Market.TotalPages),
		Feed:         browse.NewFeed(),
		Table:        components.NewCoinTable(),
		Cards:        components.NewCoinCards(),
		Layout:       cfg.UI.Layout,
		Dark:         cfg.IsDark(),
	}
	m.refreshViews()
	return m
}

// Init initializes the application. Data loads once the terminal size is known.
func (m Model) Init() tea.Cmd {
	return TickCmd(tickInterval)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		cmd := m.activate()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.Table.SetSpinnerFrame(m.SpinnerFrame)
		m.Cards.SetSpinnerFrame(m.SpinnerFrame)
		if m.StatusMsg != "" && time.Now().After(m.statusUntil) {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, TickCmd(tickInterval)

	case PageLoadedMsg:
		if !m.Pager.Resolve(msg.Req, msg.Page, msg.Err) {
			return m, nil
		}
		if msg.Err == nil && msg.Page.FromCache {
			m.setStatus(offlineStatus(msg.Page), false)
		}
		m.refreshViews()
		return m, nil

	case FeedPageLoadedMsg:
		if !m.Feed.Resolve(msg.Req, msg.Page, msg.Err) {
			return m, nil
		}
		if msg.Err == nil && msg.Page.FromCache {
			m.setStatus(offlineStatus(msg.Page), false)
		}
		m.refreshViews()
		// The sentinel may still be on screen after a short page
		cmd := m.checkSentinel()
		return m, cmd

	case FavoritesChangedMsg:
		switch {
		case msg.Err != nil:
			m.setStatus(msg.Err.Error(), true)
		case msg.Added:
			m.setStatus("Starred "+msg.Coin.Name, false)
		default:
			m.setStatus("Unstarred "+msg.Coin.Name, false)
		}
		m.refreshViews()
		return m, nil

	case ThemeSavedMsg:
		m.setStatus("Saved "+msg.Theme+" theme", false)
		return m, nil

	case ErrMsg:
		m.setStatus(msg.Error(), true)
		return m, nil
	}

	return m, nil
}

func offlineStatus(page domain.Page) string {
	return fmt.Sprintf("Offline · showing cached page %d from %s", page.Number, page.FetchedAt.Local().Format("Jan 2 15:04"))
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	m.statusUntil = time.Now().Add(statusTTL)
}

// isWide reports whether the table layout is in use
func (m Model) isWide() bool {
	switch m.Layout {
	case config.LayoutTable:
		return true
	case config.LayoutCards:
		return false
	default:
		return m.Width >= m.Config.UI.WideBreakpoint
	}
}

func (m Model) activeView() coinView {
	if m.isWide() {
		return m.Table
	}
	return m.Cards
}

// activate starts loading the visible layout if it has never loaded
func (m *Model) activate() tea.Cmd {
	if !m.Ready || m.FavoritesOnly {
		return nil
	}
	if m.isWide() {
		if m.Pager.Status() != browse.StatusIdle {
			return nil
		}
		return m.fetchPage(m.Pager.Load())
	}
	if req, ok := m.Feed.Start(); ok {
		return m.fetchFeedPage(req)
	}
	return m.checkSentinel()
}

// checkSentinel loads the next feed page when the sentinel row is on screen
func (m *Model) checkSentinel() tea.Cmd {
	if m.isWide() || m.FavoritesOnly || !m.Cards.SentinelVisible() {
		return nil
	}
	req, ok := m.Feed.SentinelVisible()
	if !ok {
		return nil
	}
	return m.fetchFeedPage(req)
}

func (m *Model) fetchPage(req browse.Request) tea.Cmd {
	m.refreshViews()
	return FetchPageCmd(m.MarketSvc, req, m.Config.Market.Timeout)
}

func (m *Model) fetchFeedPage(req browse.Request) tea.Cmd {
	m.refreshViews()
	return FetchFeedPageCmd(m.MarketSvc, req, m.Config.Market.Timeout)
}

func (m Model) favoriteSet() map[string]bool {
	favs := m.FavoritesSvc.List()
	set := make(map[string]bool, len(favs))
	for _, c := range favs {
		set[c.ID] = true
	}
	return set
}

// refreshViews pushes controller state into both components
func (m *Model) refreshViews() {
	favSet := m.favoriteSet()
	m.Table.SetFavorites(favSet)
	m.Cards.SetFavorites(favSet)

	if m.FavoritesOnly {
		favs := m.FavoritesSvc.List()
		title := fmt.Sprintf("Favorites (%d)", m.FavoritesSvc.Len())
		empty := "No favorites yet. Press s on a coin to star it."

		m.Table.SetCoins(favs)
		m.Table.SetState(browse.StatusLoaded, nil)
		m.Table.SetTitle(title)
		m.Table.SetEmptyMessage(empty)

		m.Cards.SetCoins(favs)
		m.Cards.SetState(browse.StatusLoaded, nil, false)
		m.Cards.SetTitle(title)
		m.Cards.SetEmptyMessage(empty)
		return
	}

	pageTitle := fmt.Sprintf("Page %d", m.Pager.Page())
	if m.Pager.FromCache() {
		pageTitle += " (cached)"
	}
	m.Table.SetCoins(m.Pager.Coins())
	m.Table.SetState(m.Pager.Status(), m.Pager.Err())
	m.Table.SetTitle(pageTitle)
	m.Table.SetEmptyMessage("No coins on this page")

	feedTitle := fmt.Sprintf("Top coins · %d loaded", len(m.Feed.Coins()))
	if n := m.Feed.CachedPages(); n > 0 {
		feedTitle += fmt.Sprintf(" · %d cached pages", n)
	}
	m.Cards.SetCoins(m.Feed.Coins())
	m.Cards.SetState(m.Feed.Status(), m.Feed.Err(), true)
	m.Cards.SetTitle(feedTitle)
	m.Cards.SetEmptyMessage("No coins")
}
