package models

// Task is a single item on the wedding planning checklist.
type Task struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	Date      *string `json:"date,omitempty"`     // YYYY-MM-DD format
	Priority  *bool   `json:"priority,omitempty"` // starred tasks
}

// IsPriority reports whether the task is starred.
func (t Task) IsPriority() bool {
	return t.Priority != nil && *t.Priority
}

// Clone returns a copy of the task that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	c.Date = cloneString(t.Date)
	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	return c
}

// SeedTasks returns the checklist every new couple starts with.
func SeedTasks() []Task {
	starred := func() *bool { b := true; return &b }
	return []Task{
		{ID: "1", Title: "Secure the Dream Venue", Priority: starred()},
		{ID: "2", Title: "Finalize Guest List", Priority: starred()},
		{ID: "3", Title: "Book Wedding Photographer"},
		{ID: "4", Title: "Start Dress Shopping"},
	}
}
