package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/kurasim/internal/analysis"
	"github.com/san-kum/kurasim/internal/dynamo"
)

const (
	circleWidth  = 40
	circleHeight = 20
	graphWidth   = 36
)

type TickMsg time.Time

// Replay is a Bubble Tea model that plays back a finished trajectory on the
// phase circle.
type Replay struct {
	title    string
	traj     *dynamo.Trajectory
	grid     *dynamo.Grid
	order    analysis.OrderParameter
	velocity []float64
	view     *CircleView
	theme    Theme
	styles   Styles
	playHead int
	stride   int
	running  bool
	showHelp bool
	fps      int
}

// NewReplay prepares a replay. velocity may be nil; when present it holds
// mean oscillator velocities and is summarized in the side panel.
func NewReplay(title string, traj *dynamo.Trajectory, grid *dynamo.Grid, velocity []float64, theme Theme) Replay {
	return Replay{
		title:    title,
		traj:     traj,
		grid:     grid,
		order:    analysis.OrderSeries(traj),
		velocity: velocity,
		view:     NewCircleView(circleWidth, circleHeight),
		theme:    theme,
		styles:   NewStyles(theme),
		stride:   1,
		running:  true,
		fps:      30,
	}
}

func (m Replay) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd {
	return m.tick()
}

func (m Replay) last() int { return m.traj.Finalized() }

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.playHead = 0
		case "[":
			m.playHead = max(m.playHead-10*m.stride, 0)
		case "]":
			m.playHead = min(m.playHead+10*m.stride, m.last())
		case "+", "=":
			m.stride = min(m.stride*2, 64)
		case "-":
			m.stride = max(m.stride/2, 1)
		case "t":
			m.theme = m.theme.next()
			m.styles = NewStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case TickMsg:
		if m.running {
			m.playHead += m.stride
			if m.playHead >= m.last() {
				m.playHead = m.last()
				m.running = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Replay) View() string {
	n := m.playHead
	x, err := m.traj.View(n)
	if err != nil {
		return m.styles.Warning.Render(err.Error())
	}
	circle := m.styles.Circle.Render(m.view.Render(x, m.order.Z[n]))

	var s strings.Builder
	s.WriteString(m.styles.Header.Render(strings.ToUpper(m.title)) + "\n")
	status := "PLAYING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s  x%d\n\n", status, m.stride))

	if n > 1 {
		s.WriteString(m.styles.Graph.Render(PlotOrder(analysis.OrderParameter{R: m.order.R[:n+1]}, graphWidth, 5)) + "\n")
	}
	row := func(label, value string) {
		s.WriteString(m.styles.Label.Render(label) + m.styles.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3f", m.grid.At(n)))
	row("Step", fmt.Sprintf("%d / %d", n, m.last()))
	row("N", fmt.Sprintf("%d", m.traj.N()))
	row("r", fmt.Sprintf("%.4f", m.order.R[n]))
	row("ψ", fmt.Sprintf("%+.4f", m.order.Psi[n]))
	row("Progress", ProgressBar(float64(n)/float64(max(m.last(), 1)), 20))
	if len(m.velocity) > 0 {
		s.WriteString("\n" + m.styles.Label.Render("Velocity") + "\n" + Sparkline(m.velocity, graphWidth) + "\n")
	}
	s.WriteString(m.styles.Help.Render("SP:Pause R:Restart Q:Quit\n[ ]:Seek +/-:Speed T:Theme ?:Help"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, circle, m.styles.Panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + body
	}
	return body
}

const helpText = `
  Space   pause or resume playback
  R       restart from the first column
  [ ]     seek backward or forward
  + -     double or halve playback speed
  T       cycle color themes
  Q       quit`

// RunReplay blocks until the user quits the replay.
func RunReplay(m Replay) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
