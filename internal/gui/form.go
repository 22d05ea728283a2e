package gui

import (
	"strings"

	"github.com/forPelevin/ytpgen/internal/types"
)

// form holds the editable copy of the effect chain behind the window. It
// never aliases the loaded configuration.
type form struct {
	rows []types.EffectSpec
}

func newForm(chain []types.EffectSpec) *form {
	return &form{rows: types.CloneChain(chain)}
}

func (f *form) setEnabled(i int, on bool) {
	if i >= 0 && i < len(f.rows) {
		f.rows[i].Enabled = on
	}
}

func (f *form) setProbability(i int, p float64) {
	if i < 0 || i >= len(f.rows) {
		return
	}
	f.rows[i].Probability = min(max(p, 0), 1)
}

// chain rebuilds a chain from the current row state.
func (f *form) chain() []types.EffectSpec {
	return types.CloneChain(f.rows)
}

// logLines keeps the most recent progress lines for the log view.
type logLines struct {
	lines []string
	limit int
}

func (l *logLines) add(line string) string {
	l.lines = append(l.lines, line)
	if l.limit > 0 && len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	return strings.Join(l.lines, "\n")
}
