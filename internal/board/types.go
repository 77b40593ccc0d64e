package board

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// ValidStatus reports whether s is one of the three known states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Accent is a category color token. The palette is fixed at five values.
type Accent string

const (
	AccentBlush    Accent = "blush"
	AccentMint     Accent = "mint"
	AccentLavender Accent = "lavender"
	AccentSunny    Accent = "sunny"
	AccentSky      Accent = "sky"
)

// ValidAccent reports whether a is one of the five palette tokens.
func ValidAccent(a Accent) bool {
	switch a {
	case AccentBlush, AccentMint, AccentLavender, AccentSunny, AccentSky:
		return true
	}
	return false
}

type Category struct {
	ID     string
	Name   string
	Accent Accent
	Emoji  string
}

type Member struct {
	ID            string
	Name          string
	Role          string
	ContactEmail  string
	ContactLineID string
}

// Task mirrors one row of the persistence service. Due is a date-only
// string (2006-01-02) or empty; AssigneeIDs never contains duplicates.
type Task struct {
	ID          string
	Title       string
	CategoryID  string
	Emoji       string
	Status      Status
	IsDone      bool
	Notes       string
	Due         string
	AssigneeIDs []string
}

// Snapshot is the engine's in-memory mirror of the persistence service:
// best effort, replaced wholesale on load and patched entity-by-entity
// after each confirmed mutation.
type Snapshot struct {
	Categories []Category
	Members    []Member
	Tasks      []Task
}

type AddCategoryInput struct {
	Name   string
	Accent Accent
	Emoji  string
}

type AddMemberInput struct {
	Name          string
	Role          string
	ContactEmail  string
	ContactLineID string
}

type UpdateMemberInput struct {
	ID            string
	Name          string
	Role          string
	ContactEmail  string
	ContactLineID string
}

type AddTaskInput struct {
	Title       string
	CategoryID  string
	Emoji       string
	Notes       string
	Due         string
	AssigneeIDs []string
}
