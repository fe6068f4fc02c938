// Package ui renders user facing console output: status lines, tables, boxes and markdown.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/jhipster/jhipster-go/internal/core/templates"
)

var (
	// Out receives normal output, Err receives errors.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	PrimaryColor   = lipgloss.Color("#3E8ACC")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

func width() int {
	if w := pterm.GetTerminalWidth(); w > 0 && w < 120 {
		return w
	}
	return 80
}

// PrintHeader prints the banner shown before a generation run.
func PrintHeader(title, subtitle string) {
	header := lipgloss.NewStyle().
		Width(width()-2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			TitleStyle.Render(title),
			SecondaryStyle.Render(subtitle),
		))
	fmt.Fprintln(Out, header)
}

// PrintSuccess prints a success message.
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message on Err.
func PrintError(format string, args ...any) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an informational message.
func PrintInfo(format string, args ...any) {
	fmt.Fprintln(Out, InfoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// PrintStep prints a [step/total] progress line.
func PrintStep(step, total int, message string) {
	fmt.Fprintf(Out, "%s %s\n", SecondaryStyle.Render(fmt.Sprintf("[%d/%d]", step, total)), message)
}

// PrintTable prints rows under headers.
func PrintTable(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, out)
	return nil
}

// PrintList prints a bulleted list.
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(Out, "  • %s\n", item)
	}
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width()),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// PrintMarkdown renders markdown content on Out.
func PrintMarkdown(content string) error {
	out, err := RenderMarkdown(content)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

// PrintBox prints content in a titled box.
func PrintBox(title, content string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Width(width() - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
	fmt.Fprintln(Out, box)
}

// PrintSection prints an underlined section title.
func PrintSection(title string) {
	section := lipgloss.NewStyle().
		Width(width()).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(title)
	fmt.Fprintln(Out, section)
}

// Spinner starts a spinner. Stop it with Success or Fail.
func Spinner(message string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.WithWriter(Out).WithRemoveWhenDone(true).Start(message)
}

// PrintDiff prints a conflict diff, removed lines in red and added lines in green.
func PrintDiff(diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(trimmed, "-"):
			fmt.Fprintln(Out, ErrorStyle.Render(line))
		case strings.HasPrefix(trimmed, "+"):
			fmt.Fprintln(Out, SuccessStyle.Render(line))
		default:
			fmt.Fprintln(Out, line)
		}
	}
}

var statusColors = map[templates.Status]*color.Color{
	templates.StatusCreate:    color.New(color.FgGreen, color.Bold),
	templates.StatusIdentical: color.New(color.FgCyan),
	templates.StatusForce:     color.New(color.FgYellow, color.Bold),
	templates.StatusConflict:  color.New(color.FgRed, color.Bold),
}

// StatusLabel colors a file status the way yeoman style generators print it.
func StatusLabel(s templates.Status) string {
	label := fmt.Sprintf("%-9s", s)
	if c, ok := statusColors[s]; ok {
		return c.Sprint(label)
	}
	return label
}

// PrintResults prints one line per committed file followed by a summary. Conflict diffs are
// printed under their file when verbose is set.
func PrintResults(results []templates.Result, verbose bool) {
	sorted := append([]templates.Result(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	for _, r := range sorted {
		fmt.Fprintf(Out, "  %s %s\n", StatusLabel(r.Status), r.Path)
		if verbose && r.Status == templates.StatusConflict && r.Diff != "" {
			PrintDiff(r.Diff)
		}
	}

	counts := templates.Summary(results)
	summary := fmt.Sprintf("%d created, %d identical, %d overwritten, %d conflicts",
		counts[templates.StatusCreate], counts[templates.StatusIdentical],
		counts[templates.StatusForce], counts[templates.StatusConflict])
	if counts[templates.StatusConflict] > 0 {
		PrintWarning("%s (use --force to overwrite)", summary)
		return
	}
	PrintSuccess("%s", summary)
}
