// Command seed fills the configured store with sample entries.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"tableflip.dev/taskq/pkg/command"
	"tableflip.dev/taskq/pkg/entry"
	"tableflip.dev/taskq/pkg/query"
	"tableflip.dev/taskq/pkg/runner/exec"
	"tableflip.dev/taskq/pkg/store"
)

func sample(now time.Time) []command.Command {
	today := entry.StartOfDay(now)
	in := func(days, hours int) *time.Time {
		t := today.AddDate(0, 0, days).Add(time.Duration(hours) * time.Hour)
		return &t
	}
	standup := *in(1, 9)

	return []command.Command{
		command.AddTask("pay rent", in(3, 17), "home"),
		command.AddTask("renew passport", in(-2, 12), "errands"),
		command.AddTask("water the plants", nil, "home"),
		command.AddTask("review design doc", in(0, 15), "work"),
		command.AddEvent("standup", standup, standup.Add(15*time.Minute), "work"),
		command.AddEvent("dentist", *in(6, 10), *in(6, 11), "health", "errands"),
		command.AddTask("file expenses", in(-1, 9), "work"),
		&command.Mark{Index: 2},
	}
}

func main() {
	if err := run(context.Background(), os.Stdout); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func run(ctx context.Context, out io.Writer) error {
	p, err := store.Open(nil)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer p.Close()

	s, err := exec.Open(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	for _, c := range sample(time.Now()) {
		r := s.Execute(ctx, c)
		if !r.Success {
			fmt.Fprintf(out, "skipped %s: %s\n", c.Name(), r.Message)
		}
	}

	for _, e := range s.Query(query.Filter{IncludeCompleted: true}) {
		fmt.Fprintln(out, e.String())
	}
	return nil
}
