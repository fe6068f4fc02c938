package jdl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
)

// ErrInvalidDocument is returned when a JDL document has errors.
var ErrInvalidDocument = errors.New("invalid JDL document")

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

func (s Severity) colored(text string) string {
	if s == SeverityWarning {
		return color.New(color.FgYellow, color.Bold).Sprint(text)
	}
	return color.New(color.FgRed, color.Bold).Sprint(text)
}

// Diagnostic is a single error or warning tied to a source position.
type Diagnostic struct {
	Severity Severity
	Pos      lexer.Position
	Message  string
}

func (d Diagnostic) Error() string {
	if d.Pos.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.Pos.Filename, d.Pos.Line, d.Pos.Column, d.Message)
}

// Diagnostics accumulates errors and warnings so that every problem of a document is
// reported at once.
type Diagnostics struct {
	items []Diagnostic
}

// Errorf records an error at pos.
func (d *Diagnostics) Errorf(pos lexer.Position, format string, args ...any) {
	d.items = append(d.items, Diagnostic{Severity: SeverityError, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning at pos.
func (d *Diagnostics) Warnf(pos lexer.Position, format string, args ...any) {
	d.items = append(d.items, Diagnostic{Severity: SeverityWarning, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Append adds every diagnostic of other.
func (d *Diagnostics) Append(other Diagnostics) {
	d.items = append(d.items, other.items...)
}

// All returns every diagnostic in report order.
func (d Diagnostics) All() []Diagnostic {
	return d.items
}

// Errors returns the errors only.
func (d Diagnostics) Errors() []Diagnostic {
	return d.filter(SeverityError)
}

// Warnings returns the warnings only.
func (d Diagnostics) Warnings() []Diagnostic {
	return d.filter(SeverityWarning)
}

func (d Diagnostics) filter(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.items {
		if item.Severity == s {
			out = append(out, item)
		}
	}
	return out
}

// HasErrors reports whether at least one error was recorded.
func (d Diagnostics) HasErrors() bool {
	return len(d.Errors()) > 0
}

// Err returns nil when there are no errors, or an error wrapping ErrInvalidDocument that
// lists them.
func (d Diagnostics) Err() error {
	errs := d.Errors()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// PrettyString renders every diagnostic against the source text.
func (d Diagnostics) PrettyString(src string) string {
	var buf bytes.Buffer
	for _, item := range d.items {
		PrettyPrint(&buf, src, item)
	}
	return buf.String()
}

// PrettyPrint writes a diagnostic with the offending line of src highlighted.
func PrettyPrint(w io.Writer, src string, d Diagnostic) {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	titleColor := color.New(color.Bold)
	arrowColor := color.New(color.FgCyan, color.Bold)
	filePathColor := color.New(color.Underline)
	lineNumColor := color.New(color.FgCyan, color.Bold)

	fmt.Fprint(w, d.Severity.colored(d.Severity.String()))
	titleColor.Fprintf(w, ": %s\n", d.Message)

	lines := strings.Split(src, "\n")
	if d.Pos.Line < 1 || d.Pos.Line > len(lines) {
		return
	}
	lineNo := d.Pos.Line
	arrowColor.Fprint(w, "  --> ")
	filePathColor.Fprintf(w, "%s:%d:%d\n", d.Pos.Filename, lineNo, d.Pos.Column)
	lineNumColor.Fprint(w, "   | \n")

	if lineNo > 1 {
		lineNumColor.Fprintf(w, "%2d | ", lineNo-1)
		fmt.Fprintf(w, "%s\n", lines[lineNo-2])
	}

	line := lines[lineNo-1]
	start := d.Pos.Column - 1
	if start < 0 || start > len(line) {
		start = len(line)
	}
	end := start
	for end < len(line) && !unicode.IsSpace(rune(line[end])) {
		end++
	}
	lineNumColor.Fprintf(w, "%2d | ", lineNo)
	fmt.Fprintf(w, "%s%s%s\n", line[:start], d.Severity.colored(line[start:end]), line[end:])
	if start == end {
		lineNumColor.Fprint(w, "   | ")
		fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", start), d.Severity.colored("^ here"))
	}
	lineNumColor.Fprint(w, "   | \n")
}

// fromParseError turns a participle error into a diagnostic.
func fromParseError(filename string, err error) Diagnostics {
	var diags Diagnostics
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		if pos.Filename == "" {
			pos.Filename = filename
		}
		diags.Errorf(pos, "%s", perr.Message())
		return diags
	}
	diags.Errorf(lexer.Position{Filename: filename}, "%v", err)
	return diags
}
