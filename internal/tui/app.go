// Package tui is the terminal briefing UI served over SSH.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coinwire/internal/domain"
	"coinwire/internal/render"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const fetchTimeout = 30 * time.Second

// BriefingService returns (nil, nil) when the provider has no data for symbol.
type BriefingService interface {
	Briefing(ctx context.Context, symbol string) (*domain.Briefing, error)
}

// Services are the per-session dependencies of the UI.
type Services struct {
	Briefings BriefingService
	Logger    *zap.Logger
	Username  string
}

type briefingMsg struct {
	symbol   string
	briefing *domain.Briefing
	err      error
}

// AppModel is a symbol prompt above the latest briefing.
type AppModel struct {
	svc     Services
	input   textinput.Model
	width   int
	height  int
	loading bool
	symbol  string
	status  string
	current *domain.Briefing
}

func NewAppModel(svc Services) *AppModel {
	if svc.Logger == nil {
		svc.Logger = zap.NewNop()
	}
	if svc.Username == "" {
		svc.Username = "anonymous"
	}

	input := textinput.New()
	input.Placeholder = "BTC"
	input.Prompt = "Symbol: "
	input.CharLimit = 16
	input.Width = 16
	input.Focus()

	return &AppModel{svc: svc, input: input}
}

func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			symbol := strings.ToUpper(strings.TrimSpace(m.input.Value()))
			if symbol == "" || m.loading {
				return m, nil
			}
			m.loading = true
			m.symbol = symbol
			m.status = ""
			return m, m.fetch(symbol)
		}
	case briefingMsg:
		m.loading = false
		switch {
		case msg.err != nil:
			m.svc.Logger.Error("fetch briefing failed", zap.String("symbol", msg.symbol), zap.Error(msg.err))
			m.status = "Failed to fetch market data"
		case msg.briefing == nil:
			m.status = "No data found for symbol: " + msg.symbol
			m.current = nil
		default:
			m.current = msg.briefing
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) fetch(symbol string) tea.Cmd {
	briefings := m.svc.Briefings
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		b, err := briefings.Briefing(ctx, symbol)
		return briefingMsg{symbol: symbol, briefing: b, err: err}
	}
}

func (m *AppModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("coinwire market briefing"))
	sb.WriteString(mutedStyle.Render("  signed in as " + m.svc.Username))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")

	switch {
	case m.loading:
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("Fetching %s...", m.symbol)))
		sb.WriteString("\n")
	case m.status != "":
		sb.WriteString(errorStyle.Render(m.status))
		sb.WriteString("\n")
	}

	if m.current != nil {
		sb.WriteString(m.summaryView(m.current))
		sb.WriteString("\n")
		for _, item := range m.current.Items {
			sb.WriteString("\n")
			sb.WriteString(headerStyle.Render(item.Title))
			sb.WriteString("\n")
			sb.WriteString(mutedStyle.Render("Source: " + item.Source))
			sb.WriteString("\n")
			sb.WriteString(m.wrap(item.Body))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("enter: fetch • esc: quit"))
	return sb.String()
}

func (m *AppModel) summaryView(b *domain.Briefing) string {
	s := render.Summarize(b.Quote)
	move := downStyle
	if s.Direction.Class == "up" {
		move = upStyle
	}

	lines := []string{
		headerStyle.Render(fmt.Sprintf("%s (%s)", b.Quote.Name, b.Symbol)),
		"Price: $" + s.Price + " " + move.Render(s.Direction.Arrow+" "+s.Change+"%"),
		"Market Cap: $" + s.MarketCap + " billion",
		"24h Volume: $" + s.Volume + " million",
		mutedStyle.Render("Last updated: " + s.Updated),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *AppModel) wrap(text string) string {
	if m.width <= 4 {
		return text
	}
	return lipgloss.NewStyle().Width(m.width - 4).Render(text)
}
