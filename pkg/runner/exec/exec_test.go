package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/taskq/pkg/app"
	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/query"
)

func TestDoPrintsMessageAndView(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	x := &Exec{Session: app.NewSession(), Out: &out}

	if _, err := x.Do(context.Background(), nil, command.AddTask("buy milk", nil, "home")); err != nil {
		t.Fatalf("do: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Added entry") || !strings.Contains(got, "buy milk") {
		t.Fatalf("unexpected output %q", got)
	}

	out.Reset()
	_, err := x.Do(context.Background(), nil, command.AddTask("buy milk", nil, "home"))
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed for a duplicate, got %v", err)
	}
	if strings.Contains(out.String(), "Entries") {
		t.Fatalf("failed commands print no view, got %q", out.String())
	}
}

func TestDoJSON(t *testing.T) {
	var out bytes.Buffer
	x := &Exec{Session: app.NewSession(), Out: &out, JSON: true}
	ctx := context.Background()

	for _, title := range []string{"alpha", "beta"} {
		if _, err := x.Do(ctx, nil, command.AddTask(title, nil)); err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
	}
	out.Reset()

	view := query.Filter{Keywords: []string{"beta"}}
	if _, err := x.Do(ctx, &view, &command.Mark{Index: 1}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	var res struct {
		Message string            `json:"message"`
		Success bool              `json:"success"`
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	// The view is back to the default listing after the mark.
	if !res.Success || len(res.Entries) != 1 || !strings.Contains(string(res.Entries[0]), "alpha") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestUndoRedo(t *testing.T) {
	var out bytes.Buffer
	x := &Exec{Session: app.NewSession(), Out: &out}
	ctx := context.Background()

	if _, err := x.Undo(ctx); !errors.Is(err, ErrFailed) {
		t.Fatalf("expected nothing to undo, got %v", err)
	}
	if _, err := x.Do(ctx, nil, command.AddTask("alpha", nil)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := x.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if n := len(x.Session.View()); n != 0 {
		t.Fatalf("expected empty view after undo, got %d", n)
	}
	if _, err := x.Redo(ctx); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if n := len(x.Session.View()); n != 1 {
		t.Fatalf("expected one entry after redo, got %d", n)
	}
}
