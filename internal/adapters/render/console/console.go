package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bnema/diva/internal/domain"
	"github.com/bnema/diva/internal/ports"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const usageHint = `Say "OK, Google" or press the button, then speak. Press Ctrl+C to quit...`

// Renderer prints operator-facing status lines. Writes are serialized because
// the event tracker and the stdin loop print from different goroutines.
type Renderer struct {
	out         io.Writer
	interactive bool
	styles      styles
	mu          sync.Mutex
}

var _ ports.Renderer = (*Renderer)(nil)

func NewRenderer(out io.Writer, interactive bool) *Renderer {
	return &Renderer{out: out, interactive: interactive, styles: newStyles(lipgloss.NewRenderer(out))}
}

// IsTerminal reports whether out is an interactive terminal.
func IsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (r *Renderer) Event(event domain.Event) {
	header := r.styles.event
	if event.IsFatal() {
		header = r.styles.fatal
	}

	lines := strings.SplitN(event.String(), "\n", 2)
	text := header.Render(lines[0])
	if len(lines) == 2 {
		text += "\n" + r.styles.eventArgs.Render(lines[1])
	}
	r.println(text)
}

// Hint prints the usage hint, but only when attached to a terminal.
func (r *Renderer) Hint() {
	if !r.interactive {
		return
	}
	r.println(r.styles.hint.Render(usageHint))
}

func (r *Renderer) Echo(text string) {
	r.println(r.styles.echo.Render(text))
}

func (r *Renderer) Sending(text string) {
	r.println(r.styles.sending.Render("Sending text message: " + text))
}

func (r *Renderer) Registration(projectID, deviceID string, result domain.RegistrationResult) {
	switch result {
	case domain.RegistrationCreated:
		r.println(r.styles.ok.Render(fmt.Sprintf("Device %s registered in project %s", deviceID, projectID)))
	case domain.RegistrationAlreadyRegistered:
		r.println(r.styles.ok.Render(fmt.Sprintf("Device %s already registered in project %s", deviceID, projectID)))
	default:
		r.println(r.styles.skipped.Render("Device registration skipped (no project id)"))
	}
}

func (r *Renderer) println(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, text)
}
