package command

import (
	"strings"

	"tableflip.dev/taskq/pkg/query"
)

// List replaces the current view with the entries admitted by Filter.
type List struct {
	Filter query.Filter
}

func (c *List) Name() string { return "list" }

func (c *List) Execute(env *Env) Result {
	p := query.Build(c.Filter, query.WithWarnings(env.Warn))
	env.View = query.View(env.Entries.Entries(), p)
	if c.Filter.IsEmpty() {
		return success("Listed %d entries", len(env.View))
	}
	return success("Listed %d entries matching %s", len(env.View), c.Filter)
}

// Select shows the entry at a view index.
type Select struct {
	Index int
}

func (c *Select) Name() string { return "select" }

func (c *Select) Execute(env *Env) Result {
	e, err := resolve(env, c.Index)
	if err != nil {
		return failure(err)
	}
	return success("Selected entry: %s", e)
}

// Usage is the help text for every command word.
var Usage = []string{
	"add <title> [--deadline T] [--tag X]...          add a task",
	"add <title> --start T --end T [--tag X]...       add an event",
	"edit <index> [--title S] [--deadline T|--start T --end T]",
	"delete <index>",
	"tag <index> <tag>...",
	"untag <index> <tag>...",
	"mark <index>",
	"unmark <index>",
	"list [keywords...] [--tag X] [--on D|--after D --before D] [--all]",
	"select <index>",
	"clear",
	"undo",
	"redo",
	"help",
	"exit",
}

// Help lists the available commands.
type Help struct{}

func (c *Help) Name() string { return "help" }

func (c *Help) Execute(*Env) Result {
	return success("%s", strings.Join(Usage, "\n"))
}

// Exit ends an interactive session.
type Exit struct{}

func (c *Exit) Name() string { return "exit" }

func (c *Exit) Execute(*Env) Result {
	return Result{Message: "Exiting task manager as requested ...", Success: true, Exit: true}
}
