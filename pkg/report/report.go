// Package report records what a cleanup run did.
//
// The pipeline emits an Event for every inspected, deleted, renamed,
// permission-changed, moved, copied or skipped path. Recorders only observe:
// nothing in the pipeline reads them back to make decisions.
package report

import (
	"time"

	"github.com/google/uuid"
)

// Action is the kind of thing that happened to a path
type Action string

const (
	ActionInspected Action = "inspected"
	ActionDeleted   Action = "deleted"
	ActionRenamed   Action = "renamed"
	ActionChmod     Action = "chmod"
	ActionMoved     Action = "moved"
	ActionCopied    Action = "copied"
	ActionSkipped   Action = "skipped"
)

// IsMutation reports whether the action changed the filesystem
func (a Action) IsMutation() bool {
	switch a {
	case ActionDeleted, ActionRenamed, ActionChmod, ActionMoved, ActionCopied:
		return true
	}
	return false
}

// Event is one observation
type Event struct {
	Stage  string `json:"stage" yaml:"stage"`
	Action Action `json:"action" yaml:"action"`
	Path   string `json:"path" yaml:"path"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Recorder receives the event stream of a run
type Recorder interface {
	StageStarted(stage string)
	Record(event Event)
}

// Multi fans events out to several recorders
type Multi []Recorder

// StageStarted implements Recorder
func (m Multi) StageStarted(stage string) {
	for _, r := range m {
		r.StageStarted(stage)
	}
}

// Record implements Recorder
func (m Multi) Record(event Event) {
	for _, r := range m {
		r.Record(event)
	}
}

// Discard ignores everything
type Discard struct{}

// StageStarted implements Recorder
func (Discard) StageStarted(string) {}

// Record implements Recorder
func (Discard) Record(Event) {}

// StageSummary aggregates one stage
type StageSummary struct {
	Name      string         `json:"name" yaml:"name"`
	Mutations int            `json:"mutations" yaml:"mutations"`
	Counts    map[Action]int `json:"counts,omitempty" yaml:"counts,omitempty"`
}

// Summary collects a whole run. It is itself a Recorder.
type Summary struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	MainDir   string         `json:"main_dir" yaml:"main_dir"`
	Auxiliary []string       `json:"auxiliary_dirs" yaml:"auxiliary_dirs"`
	Started   time.Time      `json:"started" yaml:"started"`
	Finished  time.Time      `json:"finished,omitempty" yaml:"finished,omitempty"`
	Inspected int            `json:"inspected" yaml:"inspected"`
	Stages    []StageSummary `json:"stages" yaml:"stages"`
	Events    []Event        `json:"events" yaml:"events"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSummary starts a summary with a fresh run id
func NewSummary(mainDir string, auxiliary []string) *Summary {
	return &Summary{
		RunID:     uuid.NewString(),
		MainDir:   mainDir,
		Auxiliary: auxiliary,
		Started:   time.Now(),
	}
}

// StageStarted implements Recorder
func (s *Summary) StageStarted(stage string) {
	s.stage(stage)
}

// Record implements Recorder. Inspected events are counted, not stored.
func (s *Summary) Record(event Event) {
	if event.Action == ActionInspected {
		s.Inspected++
		return
	}
	s.Events = append(s.Events, event)

	st := s.stage(event.Stage)
	if st.Counts == nil {
		st.Counts = make(map[Action]int)
	}
	st.Counts[event.Action]++
	if event.Action.IsMutation() {
		st.Mutations++
	}
}

// Finish stamps the end of the run and the terminal error, if any
func (s *Summary) Finish(err error) {
	s.Finished = time.Now()
	if err != nil {
		s.Error = err.Error()
	}
}

// Mutations returns the number of filesystem changes across all stages
func (s *Summary) Mutations() int {
	n := 0
	for _, st := range s.Stages {
		n += st.Mutations
	}
	return n
}

// Count returns how many events of kind action were recorded
func (s *Summary) Count(action Action) int {
	if action == ActionInspected {
		return s.Inspected
	}
	n := 0
	for _, e := range s.Events {
		if e.Action == action {
			n++
		}
	}
	return n
}

// Paths returns the paths of events of kind action, in order
func (s *Summary) Paths(action Action) []string {
	var out []string
	for _, e := range s.Events {
		if e.Action == action {
			out = append(out, e.Path)
		}
	}
	return out
}

func (s *Summary) stage(name string) *StageSummary {
	for i := range s.Stages {
		if s.Stages[i].Name == name {
			return &s.Stages[i]
		}
	}
	s.Stages = append(s.Stages, StageSummary{Name: name})
	return &s.Stages[len(s.Stages)-1]
}
