// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui runs the interactive catalog browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/tui/models"
	"github.com/akyodex/akyodex/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// Screen represents different TUI screens.
type Screen int

// Define screen constants (use models constants for compatibility).
const (
	CatalogScreen Screen = Screen(models.CatalogScreen)
	DetailScreen  Screen = Screen(models.DetailScreen)
	ErrorScreen   Screen = Screen(models.ErrorScreenID)
)

// Options configure the browser.
type Options struct {
	models.CatalogOptions

	// Changes delivers paths of preference files written by other
	// processes. Nil disables live reload.
	Changes <-chan string
}

// inputCapturer is implemented by screens with a focused text field.
type inputCapturer interface {
	CapturesInput() bool
}

// App is the root model. The catalog screen persists for the whole session;
// detail and error screens are created fresh on every visit.
type App struct {
	width         int
	height        int
	styles        *styles.Styles
	currentScreen Screen
	contentModel  tea.Model
	catalog       *models.CatalogModel
	changes       <-chan string

	quitting bool
}

// NewApp creates the root model over cat.
func NewApp(ctx context.Context, cat models.Catalog, opts Options) *App {
	st := styles.New()
	catalogModel := models.NewCatalog(ctx, cat, st, opts.CatalogOptions)

	return &App{
		styles:        st,
		currentScreen: CatalogScreen,
		contentModel:  catalogModel,
		catalog:       catalogModel,
		changes:       opts.Changes,
	}
}

// Run starts the TUI application with the provided context.
func (a *App) Run(ctx context.Context) error {
	program := tea.NewProgram(
		a,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Launch checks for a terminal and runs the browser until the user quits
// or ctx is cancelled.
func Launch(ctx context.Context, cat models.Catalog, opts Options) error {
	if !isTerminal() {
		return fmt.Errorf("terminal check failed: %w", ErrNoTerminal)
	}

	return NewApp(ctx, cat, opts).Run(ctx)
}

// Init implements the tea.Model interface.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.catalog.Init(), a.waitForChange())
}

// Update implements the tea.Model interface with global navigation handling.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		return a, a.broadcast(msg)

	case tea.KeyMsg:
		return a.handleKeyMessage(msg)

	case models.NavigateMsg:
		return a.handleNavigation(msg)

	case models.DetailMsg:
		if msg.Err != nil {
			return a.forwardToCatalog(msg)
		}

		return a.navigateToScreen(DetailScreen, msg.Result)

	case models.RetryMsg:
		a.showCatalog()

		return a.forwardToCatalog(msg)

	case models.LoadedMsg:
		if msg.Err == nil && a.currentScreen == ErrorScreen {
			a.showCatalog()
		}

		return a.forwardToCatalog(msg)

	case models.PrefsChangedMsg:
		_, cmd := a.forwardToCatalog(msg)

		return a, tea.Batch(cmd, a.waitForChange())

	default:
		return a, a.broadcast(msg)
	}
}

// View implements the tea.Model interface.
func (a *App) View() string {
	if a.quitting {
		return models.GoodbyeMessage
	}

	return a.contentModel.View()
}

// GetCurrentScreen returns the current screen (for testing).
func (a *App) GetCurrentScreen() Screen {
	return a.currentScreen
}

// GetContentModel returns the current content model (for testing).
func (a *App) GetContentModel() tea.Model {
	return a.contentModel
}

// Catalog returns the persistent catalog screen.
func (a *App) Catalog() *models.CatalogModel {
	return a.catalog
}

func (a *App) handleKeyMessage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case models.KeyCtrlC:
		a.quitting = true

		return a, tea.Quit
	case "q":
		if capturer, ok := a.contentModel.(inputCapturer); !ok || !capturer.CapturesInput() {
			a.quitting = true

			return a, tea.Quit
		}
	}

	var cmd tea.Cmd

	a.contentModel, cmd = a.contentModel.Update(msg)

	return a, cmd
}

// broadcast sends msg to the visible screen and, when that is not the
// catalog, to the catalog as well so loads and scroll frames keep running.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	var cmd tea.Cmd

	a.contentModel, cmd = a.contentModel.Update(msg)
	cmds = append(cmds, cmd)

	if a.currentScreen != CatalogScreen {
		_, cmd = a.catalog.Update(msg)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}

func (a *App) forwardToCatalog(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := a.catalog.Update(msg)

	return a, cmd
}

func (a *App) showCatalog() {
	a.currentScreen = CatalogScreen
	a.contentModel = a.catalog
}

func (a *App) handleNavigation(msg models.NavigateMsg) (tea.Model, tea.Cmd) {
	targetScreen := Screen(msg.Screen)
	if a.currentScreen == targetScreen && msg.Data == nil {
		return a, nil
	}

	return a.navigateToScreen(targetScreen, msg.Data)
}

//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (a *App) navigateToScreen(targetScreen Screen, data any) (tea.Model, tea.Cmd) {
	if targetScreen == CatalogScreen {
		a.showCatalog()

		return a, nil
	}

	model := a.createModelForScreen(targetScreen, data)
	if model == nil {
		return a, nil
	}

	a.currentScreen = targetScreen
	a.contentModel = model

	return a, model.Init()
}

//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (a *App) createModelForScreen(screen Screen, data any) tea.Model {
	messages := a.catalog.Messages()

	switch screen {
	case DetailScreen:
		result, ok := data.(domain.EntryResult)
		if !ok {
			return nil
		}

		return models.NewDetail(a.styles, messages, result, a.width, a.height)

	case ErrorScreen:
		details, ok := data.(models.ErrorDetails)
		if !ok {
			return nil
		}

		errorScreen := models.NewErrorScreen(a.styles, messages, details)
		errorScreen.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})

		return errorScreen

	default:
		return nil
	}
}

func (a *App) waitForChange() tea.Cmd {
	changes := a.changes
	if changes == nil {
		return nil
	}

	return func() tea.Msg {
		path, ok := <-changes
		if !ok {
			return nil
		}

		return models.PrefsChangedMsg{Path: path}
	}
}

// isTerminal checks if stdin and stdout are connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
}
