package command

// History is the linear undo/redo record of successful mutations. Running a
// new mutation discards everything that was undone.
type History struct {
	done   []Mutation
	undone []Mutation
}

// Execute runs cmd. Successful mutations are recorded; other commands bypass
// the history.
func (h *History) Execute(env *Env, cmd Command) Result {
	m, ok := cmd.(Mutation)
	if !ok {
		return cmd.Execute(env)
	}
	if m.State() != StatePending {
		return failure(ErrAlreadyExecuted)
	}
	r := m.Execute(env)
	if r.Success {
		h.done = append(h.done, m)
		h.undone = nil
	}
	return r
}

// Undo reverses the most recent mutation. A mutation that fails to undo is
// dropped from the history.
func (h *History) Undo(env *Env) Result {
	if len(h.done) == 0 {
		return failure(ErrNothingToUndo)
	}
	m := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	r := m.Unexecute(env)
	if r.Success {
		h.undone = append(h.undone, m)
	}
	return r
}

// Redo re-applies the most recently undone mutation.
func (h *History) Redo(env *Env) Result {
	if len(h.undone) == 0 {
		return failure(ErrNothingToRedo)
	}
	m := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	r := m.Execute(env)
	if r.Success {
		h.done = append(h.done, m)
	}
	return r
}

// CanUndo reports whether Undo has work.
func (h *History) CanUndo() bool { return len(h.done) > 0 }

// CanRedo reports whether Redo has work.
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Reset forgets every recorded mutation.
func (h *History) Reset() {
	h.done, h.undone = nil, nil
}
