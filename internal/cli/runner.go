package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"todolist/internal/models"
	"todolist/internal/ui"
)

// API is the todos client used by the subcommands.
type API interface {
	List(ctx context.Context) ([]models.Todo, error)
	Create(ctx context.Context, title string) (*models.Todo, error)
	Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
}

// Options tune output behavior from root flags.
type Options struct {
	Group  bool // list grouped by pending/done
	Stdout io.Writer
	Stderr io.Writer
}

type runner struct {
	ctx context.Context
	api API
	out io.Writer
	err io.Writer
	opt Options
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, api API, args []string, opt Options) int {
	r := runner{ctx: ctx, api: api, out: opt.Stdout, err: opt.Stderr, opt: opt}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.err == nil {
		r.err = os.Stderr
	}

	if len(args) == 0 {
		PrintHelp(r.err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.out)
		return 0

	case "ls":
		return r.list()

	case "add":
		if len(a) == 0 {
			ui.Fail(r.err, "usage: todo add <title...>")
			return 2
		}
		return r.add(strings.Join(a, " "))

	case "done", "rm":
		if len(a) != 1 {
			ui.Fail(r.err, "usage: todo "+cmd+" <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail(r.err, cmd+": not a number: "+a[0])
			return 2
		}
		if cmd == "done" {
			return r.toggle(n)
		}
		return r.remove(n)
	}

	ui.Fail(r.err, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.err)
	PrintHelp(r.err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - terminal client for the todo API

Usage:
  todo [-api URL]                 Interactive list
  todo [-api URL] <subcommand>    Scripted use

Subcommands:
  add <title...>     Add a new todo (title can be multiple words)
  ls                 List todos, newest first
  done <index>       Toggle completed for the todo at 1-based index
  rm <index>         Delete the todo at 1-based index

Examples:
  todo add "Buy milk"
  todo ls
  todo done 2
  todo rm 3
`)
}

func (r runner) list() int {
	todos, err := r.api.List(r.ctx)
	if err != nil {
		ui.Fail(r.err, "Failed to fetch todos: "+err.Error())
		return 1
	}

	d, p := stats(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.TitleStyle.Render("Todos"),
		ui.SuccessStyle.Render("✔"), d,
		ui.PendingStyle.Render("•"), p,
		ui.AccentStyle.Render("Total"), len(todos),
	)

	lines := []string{header, ui.MutedStyle.Render(ui.ProgressBar(d, d+p, 28)), ""}
	if r.opt.Group {
		lines = append(lines, groupLines(todos)...)
	} else {
		lines = append(lines, flatLines(todos)...)
	}
	lines = append(lines, "", ui.MutedStyle.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(r.out, lines)
	return 0
}

func (r runner) add(title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail(r.err, "add: empty title")
		return 2
	}
	if _, err := r.api.Create(r.ctx, title); err != nil {
		ui.Fail(r.err, "Failed to add todo: "+err.Error())
		return 1
	}
	ui.OK(r.out, "added")
	return 0
}

func (r runner) toggle(userIndex int) int {
	todo, code := r.at(userIndex)
	if todo == nil {
		return code
	}
	completed := !todo.Completed
	if _, err := r.api.Update(r.ctx, todo.ID, models.TodoPatch{Title: &todo.Title, Completed: &completed}); err != nil {
		ui.Fail(r.err, "Failed to update todo: "+err.Error())
		return 1
	}
	ui.OK(r.out, "toggled")
	return 0
}

func (r runner) remove(userIndex int) int {
	todo, code := r.at(userIndex)
	if todo == nil {
		return code
	}
	if err := r.api.Delete(r.ctx, todo.ID); err != nil {
		ui.Fail(r.err, "Failed to delete todo: "+err.Error())
		return 1
	}
	ui.OK(r.out, "removed")
	return 0
}

// at resolves a 1-based index against the current server list.
func (r runner) at(userIndex int) (*models.Todo, int) {
	todos, err := r.api.List(r.ctx)
	if err != nil {
		ui.Fail(r.err, "Failed to fetch todos: "+err.Error())
		return nil, 1
	}
	if userIndex < 1 || userIndex > len(todos) {
		ui.Fail(r.err, fmt.Sprintf("index out of range: have %d, got %d", len(todos), userIndex))
		fmt.Fprintln(r.err, ui.MutedStyle.Render("Hint: run `todo ls` to see valid indexes"))
		return nil, 2
	}
	return &todos[userIndex-1], 0
}

func stats(todos []models.Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(todos []models.Todo) []string {
	if len(todos) == 0 {
		return []string{ui.MutedStyle.Render("No tasks found. Add a new task!")}
	}
	out := make([]string, 0, len(todos))
	for i, t := range todos {
		out = append(out, row(i, t))
	}
	return out
}

// groupLines keeps each todo's list index so done/rm still address it.
func groupLines(todos []models.Todo) []string {
	var pend, done []string
	for i, t := range todos {
		if t.Completed {
			done = append(done, row(i, t))
		} else {
			pend = append(pend, row(i, t))
		}
	}
	section := func(name string, rows []string) []string {
		lines := []string{ui.AccentStyle.Render(name)}
		if len(rows) == 0 {
			return append(lines, ui.MutedStyle.Render("(none)"))
		}
		return append(lines, rows...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func row(i int, t models.Todo) string {
	title := t.Title
	if r := []rune(title); len(r) > 80 {
		title = string(r[:77]) + "..."
	}
	return fmt.Sprintf("%s %s %s",
		ui.MutedStyle.Render(fmt.Sprintf("%2d.", i+1)), ui.Checkbox(t.Completed), ui.Title(title, t.Completed))
}
