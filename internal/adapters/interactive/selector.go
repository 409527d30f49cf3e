package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed in non-interactive mode
var ErrNonInteractive = errors.New("interactive prompt not available in non-interactive mode")

// SelectorAdapter handles confirmations and interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// Confirm asks a yes/no question. Declining is not an error.
func (s *SelectorAdapter) Confirm(ctx context.Context, message string) (bool, error) {
	if s.config.NonInteractive {
		return false, fmt.Errorf("%w (pass --yes to skip confirmation)", ErrNonInteractive)
	}

	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// SelectFilter lets the user pick an activity filter with fuzzy search
func (s *SelectorAdapter) SelectFilter(ctx context.Context, current domain.ActivityFilter) (domain.ActivityFilter, error) {
	if s.config.NonInteractive {
		return "", ErrNonInteractive
	}

	options := formatFilterOptions(domain.ActivityFilters)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, / to search, Enter to select"),
	}

	cursor := lo.IndexOf(domain.ActivityFilters, current)
	if cursor < 0 {
		cursor = 0
	}

	promptSelect := promptui.Select{
		Label:     "Show activity",
		Items:     options,
		Templates: templates,
		Size:      len(options),
		CursorPos: cursor,
		Searcher:  createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return domain.ActivityFilters[index], nil
}

// formatFilterOptions creates display strings like "Cancellable (cancellable)"
func formatFilterOptions(filters []domain.ActivityFilter) []string {
	return lo.Map(filters, func(f domain.ActivityFilter, _ int) string {
		return fmt.Sprintf("%s %s", f.Label(), color.New(color.FgBlue).Sprintf("(%s)", f))
	})
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.Prompter = (*SelectorAdapter)(nil)
