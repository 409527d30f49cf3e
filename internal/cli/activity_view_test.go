package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/vaultctl/internal/cli/render"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

func viewFixture() *usecase.ActivityResult {
	all := []models.Transaction{
		{ID: "3", Type: models.TransactionTypeDeposit, Amount: "5", Status: models.TransactionStatusWaitingSettlement, TxHash: "0x03", TxHashShort: "0x03"},
		{ID: "2", Type: models.TransactionTypeRedeem, Amount: "1", Status: models.TransactionStatusCompleted, TxHash: "0x02", TxHashShort: "0x02"},
		{ID: "1", Type: models.TransactionTypeSent, Amount: "2", Status: models.TransactionStatusCompleted, TxHash: "0x01", TxHashShort: "0x01"},
	}
	return &usecase.ActivityResult{Filter: domain.FilterAll, All: all, Transactions: all}
}

type viewCalls struct {
	loads   []bool
	cancels int
}

func newTestModel(calls *viewCalls, cancelErr error) activityModel {
	load := func(ctx context.Context, filter domain.ActivityFilter, refresh bool) (*usecase.ActivityResult, error) {
		calls.loads = append(calls.loads, refresh)
		return viewFixture(), nil
	}
	cancel := func(ctx context.Context) (*usecase.CancelDepositResult, error) {
		calls.cancels++
		if cancelErr != nil {
			return nil, cancelErr
		}
		return &usecase.CancelDepositResult{TxHash: common.HexToHash("0xabcdef")}, nil
	}
	renderer := render.NewActivityRenderer(&bytes.Buffer{}, false, nil)
	m := newActivityModel(context.Background(), domain.FilterAll, load, cancel, renderer)

	next, _ := m.Update(activityLoadedMsg{result: viewFixture()})
	return next.(activityModel)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m activityModel, keys ...string) (activityModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(activityModel)
	}
	return m, cmd
}

func TestActivityModelFilterCycling(t *testing.T) {
	m := newTestModel(&viewCalls{}, nil)
	require.Len(t, m.rows(), 3)

	m, _ = press(t, m, "down", "tab")
	assert.Equal(t, domain.FilterCancellable, m.filter)
	assert.Equal(t, 0, m.cursor)
	require.Len(t, m.rows(), 1)
	assert.Equal(t, "3", m.rows()[0].ID)

	m, _ = press(t, m, "tab")
	assert.Equal(t, domain.FilterDeposit, m.filter)
}

func TestActivityModelCancel(t *testing.T) {
	t.Run("non-cancellable row is refused", func(t *testing.T) {
		calls := &viewCalls{}
		m := newTestModel(calls, nil)

		m, cmd := press(t, m, "down", "c")
		assert.Nil(t, cmd)
		assert.False(t, m.confirming)
		assert.Contains(t, m.status, "cannot be cancelled")
	})

	t.Run("confirmed cancel runs and refreshes", func(t *testing.T) {
		calls := &viewCalls{}
		m := newTestModel(calls, nil)

		m, _ = press(t, m, "c")
		require.True(t, m.confirming)

		m, cmd := press(t, m, "y")
		require.NotNil(t, cmd)
		assert.True(t, m.busy)

		msg := cmd()
		done, ok := msg.(cancelDoneMsg)
		require.True(t, ok)
		assert.Equal(t, 1, calls.cancels)

		next, refresh := m.Update(done)
		m = next.(activityModel)
		assert.False(t, m.busy)
		assert.True(t, m.loading)
		assert.Contains(t, m.status, "cancelled")

		require.NotNil(t, refresh)
		_, ok = refresh().(activityLoadedMsg)
		assert.True(t, ok)
		assert.Equal(t, []bool{true}, calls.loads)
	})

	t.Run("declined cancel does nothing", func(t *testing.T) {
		calls := &viewCalls{}
		m := newTestModel(calls, nil)

		m, cmd := press(t, m, "c", "n")
		assert.Nil(t, cmd)
		assert.False(t, m.confirming)
		assert.Equal(t, 0, calls.cancels)
	})

	t.Run("cancel failure is shown", func(t *testing.T) {
		m := newTestModel(&viewCalls{}, errors.New("reverted"))

		m, cmd := press(t, m, "c", "y")
		next, _ := m.Update(cmd())
		m = next.(activityModel)
		require.Error(t, m.err)
		assert.Contains(t, m.View(), "Reverted")
	})
}

func TestActivityModelRefreshAndQuit(t *testing.T) {
	calls := &viewCalls{}
	m := newTestModel(calls, nil)

	m, cmd := press(t, m, "r")
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	cmd()
	assert.Equal(t, []bool{true}, calls.loads)

	_, cmd = press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestActivityModelView(t *testing.T) {
	m := newTestModel(&viewCalls{}, nil)

	view := m.View()
	assert.Contains(t, view, "All Activities")
	assert.Contains(t, view, "Deposit")
	assert.Contains(t, view, "⏳")
	assert.Contains(t, view, "▸")
}
