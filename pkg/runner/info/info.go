package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/taskq/pkg/store"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("TASKQ_CONFIG_PATH"); override != "" {
		fmt.Fprintln(out, "TASKQ_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Fprintln(out, "TASKQ_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Config.path: ", n.Config.BasePath())
	fmt.Fprintln(out, "Config.backend: ", n.Config.Backend())

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	snap, err := n.Persistence.Load(ctx)
	if err != nil {
		return err
	}
	tasks, events, done := 0, 0, 0
	for _, e := range snap.Entries {
		switch {
		case e.IsEvent():
			events++
		case e.Marked():
			done++
		default:
			tasks++
		}
	}
	fmt.Fprintf(out, "Entries: %d open tasks, %d completed, %d events\n", tasks, done, events)

	if len(snap.Tags) == 0 {
		fmt.Fprintf(out, "Tags:\n  %s\n", "no tags")
	} else {
		fmt.Fprintf(out, "Tags:\n  #%s\n", strings.Join(snap.Tags, " #"))
	}
	return nil
}
