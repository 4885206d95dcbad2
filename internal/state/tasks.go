package state

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/utils"
)

// ToggleTask flips completion for id. Unknown ids are ignored.
func (s *Store) ToggleTask(id string) error {
	return s.update(func(st *models.State) error {
		for i := range st.Tasks {
			if st.Tasks[i].ID == id {
				st.Tasks[i].Completed = !st.Tasks[i].Completed
				break
			}
		}
		return nil
	})
}

// AddTask appends an incomplete task with a fresh unique id.
func (s *Store) AddTask(title string, date *string, priority *bool) (models.Task, error) {
	task, err := newTask(title, date, priority)
	if err != nil {
		return models.Task{}, err
	}

	err = s.update(func(st *models.State) error {
		task.ID = s.uniqueID(st.Tasks)
		st.Tasks = append(st.Tasks, task)
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return task.Clone(), nil
}

// DeleteTask removes id from the checklist. Unknown ids are ignored.
func (s *Store) DeleteTask(id string) error {
	return s.update(func(st *models.State) error {
		kept := st.Tasks[:0]
		for _, t := range st.Tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		st.Tasks = kept
		return nil
	})
}

type importedTask struct {
	Title     string  `yaml:"title"`
	Date      *string `yaml:"date"`
	Priority  *bool   `yaml:"priority"`
	Completed bool    `yaml:"completed"`
}

type importFile struct {
	Tasks []importedTask `yaml:"tasks"`
}

// ImportTasks appends checklist items from a YAML document. Both a top-level
// list and a mapping with a "tasks" key are accepted. Either every item is
// imported or none is.
func (s *Store) ImportTasks(data []byte) ([]models.Task, error) {
	items, err := parseImport(data)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(items))
	for i, item := range items {
		task, err := newTask(item.Title, item.Date, item.Priority)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		task.Completed = item.Completed
		tasks = append(tasks, task)
	}

	err = s.update(func(st *models.State) error {
		for i := range tasks {
			tasks[i].ID = s.uniqueID(st.Tasks)
			st.Tasks = append(st.Tasks, tasks[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func parseImport(data []byte) ([]importedTask, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, invalid("tasks", "import file is empty")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return nil, invalid("tasks", "malformed YAML: %v", err)
	}
	if len(node.Content) == 0 {
		return nil, invalid("tasks", "import file is empty")
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var items []importedTask
		if err := root.Decode(&items); err != nil {
			return nil, invalid("tasks", "%v", err)
		}
		return items, nil
	case yaml.MappingNode:
		var file importFile
		if err := root.Decode(&file); err != nil {
			return nil, invalid("tasks", "%v", err)
		}
		return file.Tasks, nil
	default:
		return nil, invalid("tasks", "expected a list of tasks")
	}
}

func newTask(title string, date *string, priority *bool) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, invalid("title", "must not be empty")
	}

	task := models.Task{Title: title}
	if date != nil && strings.TrimSpace(*date) != "" {
		d := strings.TrimSpace(*date)
		if !utils.ValidateDayString(d) {
			return models.Task{}, invalid("date", "%q is not a YYYY-MM-DD day", d)
		}
		task.Date = &d
	}
	if priority != nil {
		p := *priority
		task.Priority = &p
	}
	return task, nil
}

// uniqueID draws ids until one does not collide with an existing task.
func (s *Store) uniqueID(existing []models.Task) string {
	for {
		id := s.newID()
		clash := false
		for _, t := range existing {
			if t.ID == id {
				clash = true
				break
			}
		}
		if !clash {
			return id
		}
	}
}
