// Package tui is a terminal front end for a single persisted game.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const help = "arrows move · enter/1-9 play · [ ] history · r restart · b bot · k key · q quit"

type game interface {
	Move(cell int) bool
	MoveWith(choose func(grid entity.Grid) (int, error)) (bool, error)
	Restart()
	JumpTo(step int) bool
	Rename(key string) error
	Snapshot() entity.Snapshot
}

type bot interface {
	ChooseCell(grid entity.Grid) (int, error)
}

// Model renders one game. Keys cycles through the storage keys offered by "k".
type Model struct {
	game game
	bot  bot
	keys []string

	selected int
	snap     entity.Snapshot
	notice   string
}

func New(game game, bot bot, keys []string) Model {
	return Model{
		game:     game,
		bot:      bot,
		keys:     keys,
		selected: entity.GridSize / 2,
		snap:     game.Snapshot(),
	}
}

func (that Model) Init() tea.Cmd {
	return nil
}

func (that Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return that, nil
	}

	that.notice = ""

	switch key := keyMsg.String(); key {
	case "ctrl+c", "q":
		return that, tea.Quit
	case "up":
		that.shiftSelection(-3)
	case "down":
		that.shiftSelection(3)
	case "left":
		that.shiftSelection(-1)
	case "right":
		that.shiftSelection(1)
	case "enter", " ":
		that.play(that.selected)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		that.selected = int(key[0] - '1')
		that.play(that.selected)
	case "[":
		that.jump(that.snap.Cursor - 1)
	case "]":
		that.jump(that.snap.Cursor + 1)
	case "r":
		that.game.Restart()
	case "b":
		that.botTurn()
	case "k":
		that.rotateKey()
	}

	that.snap = that.game.Snapshot()
	return that, nil
}

func (that *Model) shiftSelection(delta int) {
	next := that.selected + delta
	if next < 0 || next >= entity.GridSize {
		return
	}

	if (delta == 1 || delta == -1) && next/3 != that.selected/3 {
		return
	}

	that.selected = next
}

func (that *Model) play(cell int) {
	if !that.game.Move(cell) {
		that.notice = fmt.Sprintf("cell %d can't be played", cell+1)
	}
}

func (that *Model) jump(step int) {
	if !that.game.JumpTo(step) {
		that.notice = "no such step"
	}
}

func (that *Model) botTurn() {
	moved, err := that.game.MoveWith(that.bot.ChooseCell)
	switch {
	case err != nil:
		that.notice = "bot: " + err.Error()
	case !moved:
		that.notice = "the game is over"
	}
}

func (that *Model) rotateKey() {
	if len(that.keys) == 0 {
		return
	}

	next := that.keys[0]
	for i, key := range that.keys {
		if key == that.snap.Key {
			next = that.keys[(i+1)%len(that.keys)]
			break
		}
	}

	if err := that.game.Rename(next); err != nil {
		that.notice = err.Error()
	}
}

func (that Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tic-tac-toe"))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render("key: " + that.snap.Key))
	b.WriteString("\n\n")

	b.WriteString(boardStyle.Render(that.board()))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(that.snap.StatusText))
	b.WriteString("\n\n")

	for _, step := range that.snap.Steps {
		line := fmt.Sprintf("%d. %s", step.Index+1, step.Label)
		if step.Current {
			line = currentStyle.Render(line + " (current)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if that.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(that.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

func (that Model) board() string {
	rows := make([]string, 0, 3)
	for row := 0; row < 3; row++ {
		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			cell := " " + that.snap.Grid[i].String() + " "
			if i == that.selected {
				cell = selectedStyle.Render(cell)
			}
			cells = append(cells, cell)
		}
		rows = append(rows, strings.Join(cells, "│"))
	}

	return strings.Join(rows, "\n───┼───┼───\n")
}
