package tasks

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/models"
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a checklist item."`
	List   TaskListCmd   `cmd:"" help:"List the checklist." default:"1"`
	Toggle TaskToggleCmd `cmd:"" help:"Mark an item done or not done."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete an item."`
	Import TaskImportCmd `cmd:"" help:"Import items from a YAML or JSON file."`
}

// Resolve finds a task by its 1-based list number or by an id prefix.
func Resolve(list []models.Task, ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, fmt.Errorf("task reference is required")
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return models.Task{}, fmt.Errorf("no task number %d (have %d)", n, len(list))
		}
		return list[n-1], nil
	}

	var match *models.Task
	for i := range list {
		if strings.HasPrefix(list[i].ID, ref) {
			if match != nil {
				return models.Task{}, fmt.Errorf("task id %q is ambiguous", ref)
			}
			match = &list[i]
		}
	}
	if match == nil {
		return models.Task{}, fmt.Errorf("task not found: %q", ref)
	}
	return *match, nil
}

// FormatTask renders one checklist line.
func FormatTask(n int, t models.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[✓]"
	}
	star := ""
	if t.IsPriority() {
		star = " ★"
	}
	date := ""
	if t.Date != nil {
		date = " (" + *t.Date + ")"
	}
	id := t.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%2d. %s %s%s%s  %s", n, box, t.Title, star, date, id)
}

type TaskAddCmd struct {
	Title    string `arg:"" help:"What needs doing."`
	Date     string `short:"d" help:"Due date (YYYY-MM-DD)."`
	Priority bool   `short:"p" help:"Star the item."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	var date *string
	if c.Date != "" {
		date = models.StringPtr(c.Date)
	}
	var priority *bool
	if c.Priority {
		priority = &c.Priority
	}

	task, err := ctx.Store.AddTask(c.Title, date, priority)
	if err != nil {
		return err
	}
	fmt.Printf("Added task: %s (ID: %s)\n", task.Title, task.ID)
	return nil
}

type TaskListCmd struct {
	Open     bool `help:"Show only items not done yet."`
	Priority bool `help:"Show only starred items."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	list := ctx.Store.Snapshot().Tasks
	if len(list) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	done := 0
	for _, t := range list {
		if t.Completed {
			done++
		}
	}
	fmt.Printf("Checklist (%d/%d done):\n", done, len(list))
	for i, t := range list {
		if c.Open && t.Completed {
			continue
		}
		if c.Priority && !t.IsPriority() {
			continue
		}
		fmt.Println("  " + FormatTask(i+1, t))
	}
	return nil
}

type TaskToggleCmd struct {
	Ref string `arg:"" help:"List number or id prefix."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	task, err := Resolve(ctx.Store.Snapshot().Tasks, c.Ref)
	if err != nil {
		return err
	}
	if err := ctx.Store.ToggleTask(task.ID); err != nil {
		return err
	}
	state := "done"
	if task.Completed {
		state = "not done"
	}
	fmt.Printf("✓ %s marked %s\n", task.Title, state)
	return nil
}

type TaskDeleteCmd struct {
	Ref string `arg:"" help:"List number or id prefix."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := Resolve(ctx.Store.Snapshot().Tasks, c.Ref)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteTask(task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted task: %s\n", task.Title)
	return nil
}

type TaskImportCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML or JSON file with a list of tasks."`
}

func (c *TaskImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	added, err := ctx.Store.ImportTasks(data)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d tasks\n", len(added))
	return nil
}
