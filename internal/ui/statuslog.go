package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// DefaultStatusHistory bounds how many status entries are kept.
const DefaultStatusHistory = 100

// StatusEntry is one gallery event shown in the status bar.
type StatusEntry struct {
	Time  time.Time
	Level zerolog.Level
	Text  string
}

func (e StatusEntry) String() string {
	if e.Level >= zerolog.WarnLevel {
		return fmt.Sprintf("%s %s: %s", e.Time.Format(time.TimeOnly), e.Level, e.Text)
	}
	return fmt.Sprintf("%s %s", e.Time.Format(time.TimeOnly), e.Text)
}

// importance colours the status label by severity.
func (e StatusEntry) importance() widget.Importance {
	switch {
	case e.Level >= zerolog.ErrorLevel:
		return widget.DangerImportance
	case e.Level == zerolog.WarnLevel:
		return widget.WarningImportance
	default:
		return widget.MediumImportance
	}
}

// StatusLog is the status bar history. The newest entry is shown after each
// Add; Older and Newer page through the rest.
type StatusLog struct {
	entries []StatusEntry
	cursor  int
	limit   int
	now     func() time.Time

	label *widget.Label
	older *widget.Button
	newer *widget.Button
}

// NewStatusLog binds a history of at most limit entries to the status bar
// widgets.
func NewStatusLog(label *widget.Label, older, newer *widget.Button, limit int) *StatusLog {
	if limit <= 0 {
		limit = DefaultStatusHistory
	}
	sl := &StatusLog{
		entries: make([]StatusEntry, 0, limit),
		cursor:  -1,
		limit:   limit,
		now:     time.Now,
		label:   label,
		older:   older,
		newer:   newer,
	}
	sl.render()
	return sl
}

// Add records text at level and jumps to it.
func (sl *StatusLog) Add(level zerolog.Level, text string) {
	sl.entries = append(sl.entries, StatusEntry{Time: sl.now(), Level: level, Text: text})
	if over := len(sl.entries) - sl.limit; over > 0 {
		sl.entries = sl.entries[over:]
	}
	sl.cursor = len(sl.entries) - 1
	sl.render()
}

// Entries returns a copy of the kept entries, oldest first.
func (sl *StatusLog) Entries() []StatusEntry {
	return append([]StatusEntry(nil), sl.entries...)
}

// Current is the entry on display.
func (sl *StatusLog) Current() (StatusEntry, bool) {
	if sl.cursor < 0 || sl.cursor >= len(sl.entries) {
		return StatusEntry{}, false
	}
	return sl.entries[sl.cursor], true
}

func (sl *StatusLog) Older() {
	if sl.cursor > 0 {
		sl.cursor--
		sl.render()
	}
}

func (sl *StatusLog) Newer() {
	if sl.cursor < len(sl.entries)-1 {
		sl.cursor++
		sl.render()
	}
}

func (sl *StatusLog) render() {
	if sl.label == nil {
		return
	}
	entry, ok := sl.Current()
	if !ok {
		sl.label.Importance = widget.MediumImportance
		sl.label.SetText("")
	} else {
		sl.label.Importance = entry.importance()
		sl.label.SetText(fmt.Sprintf("[%d/%d] %s", sl.cursor+1, len(sl.entries), entry))
	}
	setEnabled(sl.older, ok && sl.cursor > 0)
	setEnabled(sl.newer, ok && sl.cursor < len(sl.entries)-1)
}

func setEnabled(btn *widget.Button, enabled bool) {
	if btn == nil {
		return
	}
	if enabled {
		btn.Enable()
	} else {
		btn.Disable()
	}
}
