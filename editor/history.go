package editor

import (
	"errors"
	"fmt"
	"log"
)

// DefaultHistoryLimit bounds the undo stack when no preset overrides it.
const DefaultHistoryLimit = 50

var (
	ErrNothingToUndo = errors.New("history: nothing to undo")
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// Command is a reversible edit. Do validates before it mutates: when it
// returns an error the project is unchanged. Do runs again on redo.
type Command interface {
	Name() string
	Do(p *Project) error
	Undo(p *Project) error
}

// History applies commands to a project and keeps bounded undo and redo
// stacks.
type History struct {
	project  *Project
	undo     []Command
	redo     []Command
	limit    int
	onChange []func()
}

func NewHistory(p *Project, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{project: p, limit: limit}
}

func (h *History) Project() *Project {
	return h.project
}

// SetLimit changes the capacity, dropping the oldest entries if needed.
func (h *History) SetLimit(limit int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	h.limit = limit
	if len(h.undo) > limit {
		h.undo = h.undo[len(h.undo)-limit:]
	}
	if len(h.redo) > limit {
		h.redo = h.redo[len(h.redo)-limit:]
	}
}

func (h *History) Limit() int {
	return h.limit
}

// OnChange registers fn to run after every successful execute, undo, redo
// or clear.
func (h *History) OnChange(fn func()) {
	if fn != nil {
		h.onChange = append(h.onChange, fn)
	}
}

func (h *History) changed() {
	for _, fn := range h.onChange {
		fn()
	}
}

// Execute applies cmd. On success it is pushed for undo and the redo stack
// is cleared; on failure nothing is recorded.
func (h *History) Execute(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("history: nil command")
	}
	if err := cmd.Do(h.project); err != nil {
		return fmt.Errorf("history: %s: %w", cmd.Name(), err)
	}
	h.undo = append(h.undo, cmd)
	if len(h.undo) > h.limit {
		// drop oldest
		h.undo = h.undo[1:]
	}
	h.redo = nil
	h.changed()
	return nil
}

func (h *History) Undo() error {
	n := len(h.undo)
	if n == 0 {
		return ErrNothingToUndo
	}
	cmd := h.undo[n-1]
	if err := cmd.Undo(h.project); err != nil {
		return fmt.Errorf("history: undo %s: %w", cmd.Name(), err)
	}
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, cmd)
	h.changed()
	return nil
}

func (h *History) Redo() error {
	n := len(h.redo)
	if n == 0 {
		return ErrNothingToRedo
	}
	cmd := h.redo[n-1]
	if err := cmd.Do(h.project); err != nil {
		return fmt.Errorf("history: redo %s: %w", cmd.Name(), err)
	}
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, cmd)
	h.changed()
	return nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the undo and redo stack depths.
func (h *History) Len() (int, int) {
	return len(h.undo), len(h.redo)
}

// UndoList names the undoable commands, most recent first.
func (h *History) UndoList() []string {
	return names(h.undo)
}

// RedoList names the redoable commands, next redo first.
func (h *History) RedoList() []string {
	return names(h.redo)
}

func names(stack []Command) []string {
	out := make([]string, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i].Name())
	}
	return out
}

func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.changed()
}

// UndoOrLog runs Undo and logs instead of returning an empty-history no-op.
func (h *History) UndoOrLog() {
	if err := h.Undo(); err != nil {
		log.Printf("%v", err)
	}
}

func (h *History) RedoOrLog() {
	if err := h.Redo(); err != nil {
		log.Printf("%v", err)
	}
}

// Composite groups commands into one undo step. Children run in order and
// undo in reverse. The whole batch is first run against a clone of the
// project, so a failing child leaves the real project untouched.
type Composite struct {
	Label    string
	Commands []Command
}

func (c *Composite) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("batch (%d)", len(c.Commands))
}

func (c *Composite) Do(p *Project) error {
	trial := p.Clone()
	for _, cmd := range c.Commands {
		if err := cmd.Do(trial); err != nil {
			return fmt.Errorf("%s: %w", cmd.Name(), err)
		}
	}
	for i, cmd := range c.Commands {
		if err := cmd.Do(p); err != nil {
			for j := i - 1; j >= 0; j-- {
				if uerr := c.Commands[j].Undo(p); uerr != nil {
					log.Printf("history: rollback %s: %v", c.Commands[j].Name(), uerr)
				}
			}
			return fmt.Errorf("%s: %w", cmd.Name(), err)
		}
	}
	return nil
}

func (c *Composite) Undo(p *Project) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(p); err != nil {
			return fmt.Errorf("%s: %w", c.Commands[i].Name(), err)
		}
	}
	return nil
}
