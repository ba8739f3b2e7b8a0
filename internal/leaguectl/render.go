package leaguectl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
	"github.com/SamHedgehogs/nba2k-league-bot/internal/gateway"
	"github.com/charmbracelet/lipgloss"
)

// Renderer prints interactions to a terminal.
type Renderer struct {
	out       io.Writer
	title     lipgloss.Style
	public    lipgloss.Style
	ephemeral lipgloss.Style
	failure   lipgloss.Style
	pending   lipgloss.Style
	hint      lipgloss.Style
}

// NewRenderer creates a renderer whose color profile follows out.
func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out: out,
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")),
		public: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1),
		ephemeral: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1),
		failure: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Foreground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1),
		pending: r.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#E5C07B")),
		hint: r.NewStyle().
			Foreground(lipgloss.Color("#888888")),
	}
}

// Render writes every reply of it, oldest first.
func (r *Renderer) Render(it gateway.Interaction) error {
	blocks := []string{r.title.Render(fmt.Sprintf("%s · %s", it.Command, it.ID))}
	for _, m := range it.Messages {
		blocks = append(blocks, r.message(m))
	}
	if !it.Done {
		blocks = append(blocks, r.pending.Render("still working, check back with: leaguectl -interaction "+it.ID))
	}
	_, err := fmt.Fprintln(r.out, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}

func (r *Renderer) message(m gateway.Reply) string {
	text := strings.TrimRight(m.Text, "\n")
	switch {
	case m.Kind != service.KindNone:
		return r.failure.Render(text)
	case m.Deferred:
		return r.pending.Render(text)
	case m.Visibility == gateway.Ephemeral:
		return lipgloss.JoinVertical(lipgloss.Left, r.ephemeral.Render(text), r.hint.Render("only you can see this"))
	default:
		return r.public.Render(text)
	}
}

// RenderJSON writes it as indented JSON.
func RenderJSON(out io.Writer, it gateway.Interaction) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(it)
}
