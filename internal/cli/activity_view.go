package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/vaultctl/internal/app"
	"github.com/trebuchet-org/vaultctl/internal/cli/render"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

type loadActivityFunc func(ctx context.Context, filter domain.ActivityFilter, refresh bool) (*usecase.ActivityResult, error)

type cancelDepositFunc func(ctx context.Context) (*usecase.CancelDepositResult, error)

// activityLoadedMsg carries a (re)loaded activity result
type activityLoadedMsg struct {
	result *usecase.ActivityResult
	err    error
}

// cancelDoneMsg carries the outcome of a cancel request
type cancelDoneMsg struct {
	result *usecase.CancelDepositResult
	err    error
}

// activityModel is the bubbletea model for the activity view. Rows are
// addressed by their index in the filtered slice, which is rebuilt on every
// load and filter change.
type activityModel struct {
	ctx      context.Context
	load     loadActivityFunc
	cancel   cancelDepositFunc
	renderer *render.ActivityRenderer

	filter     domain.ActivityFilter
	result     *usecase.ActivityResult
	cursor     int
	loading    bool
	confirming bool
	busy       bool
	status     string
	err        error
}

func newActivityModel(ctx context.Context, filter domain.ActivityFilter, load loadActivityFunc, cancel cancelDepositFunc, renderer *render.ActivityRenderer) activityModel {
	return activityModel{
		ctx:      ctx,
		load:     load,
		cancel:   cancel,
		renderer: renderer,
		filter:   filter,
		loading:  true,
	}
}

// Init is the initial command for bubbletea
func (m activityModel) Init() tea.Cmd {
	return m.loadCmd(false)
}

func (m activityModel) loadCmd(refresh bool) tea.Cmd {
	ctx, load, filter := m.ctx, m.load, m.filter
	return func() tea.Msg {
		result, err := load(ctx, filter, refresh)
		return activityLoadedMsg{result: result, err: err}
	}
}

func (m activityModel) cancelCmd() tea.Cmd {
	ctx, cancel := m.ctx, m.cancel
	return func() tea.Msg {
		result, err := cancel(ctx)
		return cancelDoneMsg{result: result, err: err}
	}
}

// rows returns the filtered transactions currently on screen
func (m activityModel) rows() []models.Transaction {
	if m.result == nil {
		return nil
	}
	return m.result.Transactions
}

// selected returns the row under the cursor
func (m activityModel) selected() (models.Transaction, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return models.Transaction{}, false
	}
	return rows[m.cursor], true
}

func (m *activityModel) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages and updates the model
func (m activityModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.result = msg.result.ApplyFilter(m.filter)
			m.clampCursor()
		}
		return m, nil

	case cancelDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Deposit request cancelled (%s)", domain.ShortHash(msg.result.TxHash.Hex()))
		m.loading = true
		return m, m.loadCmd(true)

	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			switch msg.String() {
			case "y", "Y":
				m.busy = true
				m.status = "Cancelling deposit request..."
				return m, m.cancelCmd()
			default:
				m.status = "Cancel aborted"
				return m, nil
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows())-1 {
				m.cursor++
			}
		case "tab":
			m.filter = m.filter.Next()
			if m.result != nil {
				m.result = m.result.ApplyFilter(m.filter)
			}
			m.cursor = 0
		case "r":
			if m.busy || m.loading {
				return m, nil
			}
			m.loading = true
			m.status = ""
			return m, m.loadCmd(true)
		case "c":
			if m.busy {
				return m, nil
			}
			tx, ok := m.selected()
			if !ok || !tx.IsCancellable() {
				m.status = "Selected entry cannot be cancelled"
				return m, nil
			}
			m.confirming = true
			m.status = fmt.Sprintf("Cancel pending deposit of %s? (y/n)", tx.Amount)
		}
	}
	return m, nil
}

// View renders the UI
func (m activityModel) View() string {
	var b strings.Builder

	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("Vault activity · %s\n\n", m.filter.Label()))

	switch {
	case m.loading && m.result == nil:
		b.WriteString("Loading...\n")
	case len(m.rows()) == 0:
		b.WriteString("No activity found\n")
	default:
		b.WriteString(m.renderer.Table(m.rows(), m.cursor))
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(render.FormatError(m.err.Error()) + "\n")
	}
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  tab: filter  c: cancel  r: refresh  q: quit\n"))

	return b.String()
}

// runActivityTUI starts the interactive activity view
func runActivityTUI(cmd *cobra.Command, a *app.App, filter domain.ActivityFilter) error {
	load := func(ctx context.Context, filter domain.ActivityFilter, refresh bool) (*usecase.ActivityResult, error) {
		return a.ListActivity.Run(ctx, usecase.ListActivityParams{Filter: filter, Refresh: refresh})
	}
	renderer := render.NewActivityRenderer(cmd.OutOrStdout(), true, a.Config.Network)

	model := newActivityModel(cmd.Context(), filter, load, a.CancelDeposit.Run, renderer)
	p := tea.NewProgram(model, tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("activity view failed: %w", err)
	}
	return nil
}
