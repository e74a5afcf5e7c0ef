// Package ui implements the interactive terminal surface: numbered
// selection menus, section headers, progress spinners, and a small
// markdown renderer for backend responses.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// ruleWidth is the length of the divider drawn under section titles.
const ruleWidth = 32

// Console renders the interactive session. The streams are injectable so
// flow tests can script input and capture output.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	isTTY bool
}

// NewConsole returns a console bound to the process's stdin and stdout.
func NewConsole() *Console {
	return &Console{
		in:    bufio.NewReader(os.Stdin),
		out:   os.Stdout,
		isTTY: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewConsoleWith builds a console over explicit streams. Spinners are
// disabled because the output is assumed not to be a terminal.
func NewConsoleWith(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Select displays a numbered menu and blocks until the user picks an
// option. Empty input takes defaultIndex; anything unparseable re-prompts.
func (c *Console) Select(prompt string, options []string, defaultIndex int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("no options to select from")
	}
	if defaultIndex < 0 || defaultIndex >= len(options) {
		defaultIndex = 0
	}

	fmt.Fprintln(c.out, prompt)
	for i, option := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, option)
	}

	for {
		fmt.Fprintf(c.out, "Enter choice [%d]: ", defaultIndex+1)

		line, err := c.in.ReadString('\n')
		choice := strings.TrimSpace(line)

		if choice == "" {
			if err != nil {
				return 0, fmt.Errorf("read selection: %w", err)
			}
			return defaultIndex, nil
		}
		if idx, convErr := strconv.Atoi(choice); convErr == nil && idx >= 1 && idx <= len(options) {
			return idx - 1, nil
		}

		fmt.Fprintln(c.out, "Invalid selection. Please try again.")
		if err != nil {
			return 0, fmt.Errorf("read selection: %w", err)
		}
	}
}

// Section prints a bold heading with a rule underneath.
func (c *Console) Section(title string) {
	fmt.Fprintln(c.out)
	color.New(color.FgHiCyan, color.Bold).Fprintln(c.out, title)
	fmt.Fprintln(c.out, strings.Repeat("━", ruleWidth))
}

// Subsection prints a lighter heading without a rule.
func (c *Console) Subsection(title string) {
	fmt.Fprintln(c.out)
	color.New(color.FgHiWhite, color.Bold).Fprintln(c.out, title)
}

// Println writes a plain line.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted plain text.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Markdown renders the subset of markdown that backend responses use:
// heading lines, bullet lists, and **bold** spans.
func (c *Console) Markdown(text string) {
	heading := color.New(color.FgHiCyan, color.Bold)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			heading.Fprintln(c.out, strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			fmt.Fprintf(c.out, "  • %s\n", renderBold(trimmed[2:]))
		default:
			fmt.Fprintln(c.out, renderBold(line))
		}
	}
}

// Spin starts a progress spinner and returns the function that stops and
// clears it. Off-terminal it prints the message once instead.
func (c *Console) Spin(message string) func() {
	if !c.isTTY {
		fmt.Fprintf(c.out, "%s...\n", message)
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message + "..."
	s.Color("cyan")
	s.Start()
	return s.Stop
}

// Acknowledge blocks until the user presses Enter.
func (c *Console) Acknowledge(prompt string) error {
	fmt.Fprintf(c.out, "\n%s", prompt)
	if _, err := c.in.ReadString('\n'); err != nil && err != io.EOF {
		return fmt.Errorf("read acknowledgement: %w", err)
	}
	return nil
}

// ClearScreen wipes the terminal and homes the cursor.
func (c *Console) ClearScreen() {
	fmt.Fprint(c.out, "\x1b[2J\x1b[1;1H")
}

// renderBold converts **span** pairs to terminal bold.
func renderBold(s string) string {
	bold := color.New(color.Bold)
	var b strings.Builder
	for {
		start := strings.Index(s, "**")
		if start < 0 {
			break
		}
		rest := s[start+2:]
		end := strings.Index(rest, "**")
		if end < 0 {
			break
		}
		b.WriteString(s[:start])
		b.WriteString(bold.Sprint(rest[:end]))
		s = rest[end+2:]
	}
	b.WriteString(s)
	return b.String()
}
