// Package lifecycle defines the fixed generator phases and the queue that runs their tasks.
package lifecycle

import (
	"fmt"
	"sort"
)

// Phase is a named stage of a generator run. Phases run in declaration order.
type Phase int

const (
	Initializing Phase = iota
	Prompting
	Configuring
	Composing
	Loading
	Preparing
	Default
	Writing
	PostWriting
	Conflicts
	Install
	End

	numPhases
)

var phaseNames = [numPhases]string{
	"initializing",
	"prompting",
	"configuring",
	"composing",
	"loading",
	"preparing",
	"default",
	"writing",
	"postWriting",
	"conflicts",
	"install",
	"end",
}

// Phases returns every phase in execution order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// String returns the camelCase name of the phase.
func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	return p >= 0 && p < numPhases
}

// ParsePhase parses a phase name.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Priorities is what a generator contributes to each phase.
type Priorities map[Phase]TaskGroup

// Phases returns the phases declared in p, in execution order.
func (p Priorities) Phases() []Phase {
	out := make([]Phase, 0, len(p))
	for phase := range p {
		out = append(out, phase)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a copy whose groups can be modified independently.
func (p Priorities) Clone() Priorities {
	out := make(Priorities, len(p))
	for phase, group := range p {
		out[phase] = append(TaskGroup(nil), group...)
	}
	return out
}
