// Package ui is the terminal front end: a bubbletea program that renders the
// cached projections and routes every action through the session. It never
// talks to the engine directly and never mutates game state itself.
package ui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdai1/codenames/internal/config"
	"github.com/jdai1/codenames/internal/engineclient"
	"github.com/jdai1/codenames/internal/models"
	"github.com/jdai1/codenames/internal/session"
)

// RefreshMsg tells the program to re-read session state. The session's
// OnUpdate callback sends it from outside the program loop.
type RefreshMsg struct{}

type actionDoneMsg struct {
	status string
	err    error
}

// defaultPlaceholder is the input hint for normal play; the "g" command
// temporarily swaps it while a game id is being typed.
const defaultPlaceholder = "guess a word, or hint as \"word count\""

// Model is the bubbletea model for one sitting.
type Model struct {
	sess *session.Session
	cfg  *config.Config

	width     int
	height    int
	peek      bool // render the spymaster projection instead of the operative one
	selecting bool // input holds a game id instead of a move
	status    string
	broken    bool // status holds an error

	input textinput.Model
	log   viewport.Model
	spin  spinner.Model
	theme theme
}

// New builds the UI around an existing session.
func New(sess *session.Session, cfg *config.Config) Model {
	input := textinput.New()
	input.Placeholder = defaultPlaceholder
	input.CharLimit = 64
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		sess:  sess,
		cfg:   cfg,
		input: input,
		log:   viewport.New(0, 0),
		spin:  sp,
		theme: newTheme(),
	}
}

// Init starts the cursor blink and creates the first game.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.newGameCmd())
}

func (m Model) newGameCmd() tea.Cmd {
	sess, cfg := m.sess, m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.EngineTimeout)
		defer cancel()
		req := engineclient.CreateGameRequest{Language: cfg.BoardLanguage, BoardSize: cfg.BoardSize}
		if err := sess.NewGame(ctx, req); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "game " + sess.GameID()}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	sess, cfg := m.sess, m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.EngineTimeout)
		defer cancel()
		if err := sess.Refresh(ctx); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "refreshed"}
	}
}

func (m Model) selectGameCmd(gameID string) tea.Cmd {
	sess, cfg := m.sess, m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.EngineTimeout)
		defer cancel()
		if err := sess.SelectGame(ctx, gameID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "joined game " + gameID}
	}
}

func (m Model) passCmd() tea.Cmd {
	sess, cfg := m.sess, m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.EngineTimeout)
		defer cancel()
		if err := sess.PassTurn(ctx); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "passed"}
	}
}

// submitCmd interprets the input line for the role on move: spymasters type
// "word count", operatives type a single word.
func (m Model) submitCmd(line string) tea.Cmd {
	sess, cfg := m.sess, m.cfg
	state := sess.Operative()
	if state == nil {
		return func() tea.Msg { return actionDoneMsg{err: session.ErrNoGame} }
	}
	role := state.CurrentTurn.Role
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.EngineTimeout)
		defer cancel()
		if role == models.RoleHinter {
			word, count, err := parseHint(line)
			if err != nil {
				return actionDoneMsg{err: err}
			}
			if err := sess.GiveHint(ctx, word, count); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: fmt.Sprintf("hint %s %d", word, count)}
		}
		word := strings.TrimSpace(line)
		if word == "" || len(strings.Fields(word)) != 1 {
			return actionDoneMsg{err: fmt.Errorf("guess one word")}
		}
		if err := sess.MakeGuess(ctx, word); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "guessed " + word}
	}
}

// parseHint splits "word count" into its parts.
func parseHint(line string) (string, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("hint as \"word count\", e.g. \"water 3\"")
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil || count < 1 {
		return "", 0, fmt.Errorf("hint count must be a positive number, got %q", fields[1])
	}
	return fields[0], count, nil
}

// Update is the bubbletea message loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.log.Width = msg.Width - 4
		m.log.Height = max(4, msg.Height-18)
		m.input.Width = msg.Width - 6
		m.syncLog()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case RefreshMsg:
		m.syncLog()
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status, m.broken = msg.err.Error(), true
		} else {
			m.status, m.broken = msg.status, false
		}
		m.syncLog()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes keys. The input owns most keystrokes while focused; esc
// blurs it into command mode so single-letter commands never swallow the
// first letter of a typed word.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.peek = !m.peek
		return m, nil
	case "esc":
		if m.selecting {
			m.selecting = false
			m.input.Reset()
			m.input.Placeholder = defaultPlaceholder
			m.input.Blur()
			return m, nil
		}
		if m.input.Focused() {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return m, nil
	case "enter":
		if !m.input.Focused() {
			m.input.Focus()
			return m, nil
		}
		line := m.input.Value()
		if strings.TrimSpace(line) == "" {
			return m, nil
		}
		m.input.Reset()
		if m.selecting {
			m.selecting = false
			m.input.Placeholder = defaultPlaceholder
			return m, m.selectGameCmd(strings.TrimSpace(line))
		}
		return m, m.submitCmd(line)
	}

	if !m.input.Focused() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "n":
			m.status, m.broken = "starting a new game...", false
			return m, m.newGameCmd()
		case "p":
			return m, m.passCmd()
		case "r":
			return m, m.refreshCmd()
		case "g":
			m.selecting = true
			m.input.Placeholder = "game id"
			m.input.Focus()
			m.status, m.broken = "enter a game id", false
			return m, nil
		}
		// Remaining keys scroll the history log.
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// syncLog rebuilds the history viewport from the operative projection,
// keeping the view pinned to the newest entry.
func (m *Model) syncLog() {
	state := m.sess.Operative()
	lines := historyLines(state)
	m.log.SetContent(strings.Join(lines, "\n"))
	m.log.GotoBottom()
}

// historyLines merges the per-team and global event sequences into one
// timestamp-ordered log.
func historyLines(state *models.GameState) []string {
	if state == nil {
		return []string{"no events yet"}
	}
	var events []models.Event
	for _, seq := range state.History.Sequences() {
		events = append(events, seq...)
	}
	if len(events) == 0 {
		return []string{"no events yet"}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp.Time)
	})
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		if line := session.DescribeEvent(ev); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (m Model) turnBanner(state *models.GameState) string {
	if state == nil {
		return m.theme.help.Render("waiting for a game")
	}
	if state.IsGameOver {
		if state.Winner != nil {
			style := m.theme.teamRed
			if state.Winner.TeamColor == models.TeamBlue {
				style = m.theme.teamBlue
			}
			return style.Render(fmt.Sprintf("%s wins", state.Winner.TeamColor)) +
				m.theme.help.Render(" ("+string(state.Winner.Reason)+")")
		}
		return m.theme.banner.Render("game over")
	}

	turn := state.CurrentTurn
	style := m.theme.teamRed
	if turn.Team == models.TeamBlue {
		style = m.theme.teamBlue
	}
	who := m.sess.Seats().ControllerFor(turn.Team, turn.Role).String()
	banner := style.Render(fmt.Sprintf("%s %s to move (%s)", turn.Team, turn.Role, who))
	if turn.Role == models.RoleGuesser && turn.LeftGuesses > 0 {
		banner += m.theme.help.Render(fmt.Sprintf("  %d guesses left", turn.LeftGuesses))
	}
	if state.LastHint != nil {
		banner += "\n" + m.theme.banner.Render(
			fmt.Sprintf("hint: %s %d", strings.ToUpper(state.LastHint.Word), state.LastHint.CardAmount))
	}
	return banner
}

// View renders the whole screen.
func (m Model) View() string {
	state := m.sess.Operative()
	board := state
	title := "codenames"
	if m.peek {
		board = m.sess.Spymaster()
		title += "  [spymaster peek]"
		if board == nil {
			return m.theme.header.Render(title) + "\n\n" +
				m.theme.help.Render("no spymaster snapshot cached yet, press r to refresh") + "\n"
		}
	}

	var b strings.Builder
	b.WriteString(m.theme.header.Render(title))
	if id := m.sess.GameID(); id != "" {
		b.WriteString(m.theme.help.Render("  " + id))
	}
	b.WriteString("\n\n")
	b.WriteString(m.turnBanner(state))
	b.WriteString("\n")
	if state != nil {
		b.WriteString(renderScore(state.Score, m.theme))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderBoard(board, m.theme))
	b.WriteString("\n\n")
	b.WriteString(m.theme.panel.Render(m.log.View()))
	b.WriteString("\n")

	if m.sess.Streaming() {
		last := ""
		if activity := m.sess.Activity(); len(activity) > 0 {
			last = activity[len(activity)-1]
		}
		b.WriteString(m.spin.View() + m.theme.status.Render(" "+last) + "\n")
	} else if m.status != "" {
		style := m.theme.status
		if m.broken {
			style = m.theme.errorStatus
		}
		b.WriteString(style.Render(m.status) + "\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.theme.help.Render("enter submit | tab spymaster peek | esc commands: p pass, r refresh, n new game, g join game, q quit"))
	b.WriteString("\n")
	b.WriteString(m.theme.help.Render("seats " + m.sess.Seats().String()))
	if state == nil {
		b.WriteString("\n")
		b.WriteString(m.theme.help.Render("models: " + strings.Join(config.KnownModels, ", ")))
	}
	return b.String()
}
