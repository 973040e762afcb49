// Package workspace owns the session's project and decides whether a
// submission generates a new project or refines the current one.
package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pulse/internal/architect"
	"pulse/internal/logging"
	"pulse/internal/project"

	"github.com/google/uuid"
)

var (
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("a request is already in progress")

	// ErrNoProject is returned by operations that need a project.
	ErrNoProject = errors.New("no project")

	// ErrEmptyInstruction is returned for blank submissions.
	ErrEmptyInstruction = architect.ErrEmptyInstruction

	// ErrNothingToUndo is returned by Undo when no earlier revision is kept.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// maxHistory bounds the number of earlier revisions kept for Undo.
const maxHistory = 20

// Architect produces projects. *architect.Service implements it.
type Architect interface {
	GenerateProject(ctx context.Context, prompt string) (*project.State, error)
	RefineProject(ctx context.Context, files []project.File, instruction string) (*project.State, error)
}

// Mode is the kind of call a submission makes.
type Mode int

const (
	ModeGenerate Mode = iota
	ModeRefine
)

func (m Mode) String() string {
	if m == ModeRefine {
		return "refine"
	}
	return "generate"
}

// phase is either blank or loaded. Refinement is only reachable from loaded.
type phase interface {
	mode() Mode
}

type blank struct{}

func (blank) mode() Mode { return ModeGenerate }

type loaded struct {
	project *project.State
}

func (loaded) mode() Mode { return ModeRefine }

// Orchestrator holds the current project, the loading flag and the last error.
// It is safe for concurrent use.
type Orchestrator struct {
	mu        sync.Mutex
	architect Architect

	phase    phase
	history  []*project.State // earlier revisions, newest last
	loading  bool
	inflight string
	err      string
	revision int
}

// New creates an orchestrator with no project.
func New(a Architect) *Orchestrator {
	return &Orchestrator{
		architect: a,
		phase:     blank{},
	}
}

// Submission is one accepted instruction, ready to run outside the lock.
type Submission struct {
	ID   string
	Mode Mode
	Text string

	files     []project.File
	architect Architect
}

// Result is the outcome of a Submission.
type Result struct {
	ID       string
	Mode     Mode
	Project  *project.State
	Err      error
	Duration time.Duration
}

// Begin accepts text for processing. It clears the error, sets the loading
// flag and captures what the call needs. No service call is made here.
func (o *Orchestrator) Begin(text string) (*Submission, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.loading {
		logging.Debug("submission ignored while loading")
		return nil, ErrBusy
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInstruction
	}

	sub := &Submission{
		ID:        uuid.NewString(),
		Mode:      o.phase.mode(),
		Text:      text,
		architect: o.architect,
	}
	if p, ok := o.phase.(loaded); ok {
		sub.files = p.project.Clone().Files
	}

	o.err = ""
	o.loading = true
	o.inflight = sub.ID

	logging.Info("submission started", "id", sub.ID, "mode", sub.Mode.String())
	return sub, nil
}

// Run performs the service call. It never touches orchestrator state.
func (s *Submission) Run(ctx context.Context) Result {
	start := time.Now()
	res := Result{ID: s.ID, Mode: s.Mode}

	switch s.Mode {
	case ModeRefine:
		res.Project, res.Err = s.architect.RefineProject(ctx, s.files, s.Text)
	default:
		res.Project, res.Err = s.architect.GenerateProject(ctx, s.Text)
	}
	if res.Err == nil && res.Project == nil {
		res.Err = architect.EmptyResponseError(s.Mode.String())
	}

	res.Duration = time.Since(start)
	return res
}

// Finish applies a result. Results whose ID is not the one in flight are
// dropped and false is returned.
func (o *Orchestrator) Finish(res Result) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.loading || res.ID != o.inflight {
		logging.Warn("stale result dropped",
			"id", res.ID,
			"inflight", o.inflight,
			"mode", res.Mode.String())
		return false
	}

	o.loading = false
	o.inflight = ""

	if res.Err != nil {
		o.err = architect.UserMessage(res.Err)
		logging.Warn("submission failed",
			"id", res.ID,
			"mode", res.Mode.String(),
			"duration", res.Duration,
			"error", res.Err)
		return true
	}

	if p, ok := o.phase.(loaded); ok {
		if len(o.history) >= maxHistory {
			o.history = o.history[1:]
		}
		o.history = append(o.history, p.project)
	}
	o.phase = loaded{project: res.Project.Clone()}
	o.revision++

	logging.Info("submission completed",
		"id", res.ID,
		"mode", res.Mode.String(),
		"duration", res.Duration,
		"files", len(res.Project.Files),
		"revision", o.revision)
	return true
}

// Submit runs Begin, Run and Finish synchronously. The returned error is the
// Begin error or the service error.
func (o *Orchestrator) Submit(ctx context.Context, text string) error {
	sub, err := o.Begin(text)
	if err != nil {
		return err
	}
	res := sub.Run(ctx)
	o.Finish(res)
	return res.Err
}

// SelectFile changes only the selection. Paths not in the project are
// accepted; the viewer then shows nothing.
func (o *Orchestrator) SelectFile(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.phase.(loaded)
	if !ok {
		return ErrNoProject
	}
	o.phase = loaded{project: p.project.WithSelection(path)}
	return nil
}

// Undo restores the revision before the current one. The restored revision
// keeps the selection it had. It fails while a request is in flight.
func (o *Orchestrator) Undo() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.loading {
		return ErrBusy
	}
	if len(o.history) == 0 {
		return ErrNothingToUndo
	}

	last := len(o.history) - 1
	restored := o.history[last]
	o.history[last] = nil
	o.history = o.history[:last]
	o.phase = loaded{project: restored}
	o.err = ""

	logging.Info("revision restored", "title", restored.Title, "remaining", len(o.history))
	return nil
}

// DismissError clears the error overlay.
func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = ""
}

// Snapshot is a point-in-time copy of the orchestrator's observable state.
type Snapshot struct {
	Project  *project.State // nil when no project exists
	Previous *project.State // nil before the first refinement
	Loading  bool
	Error    string
	Revision int
	Mode     Mode // the mode the next submission will use
	Undoable int  // earlier revisions available to Undo
}

// HasProject reports whether a project exists.
func (s Snapshot) HasProject() bool {
	return s.Project != nil
}

// Changes compares the current project with the previous revision.
func (s Snapshot) Changes() []project.Change {
	if s.Project == nil || s.Previous == nil {
		return nil
	}
	return project.Compare(s.Previous, s.Project)
}

// Snapshot returns the current observable state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		Loading:  o.loading,
		Error:    o.err,
		Revision: o.revision,
		Mode:     o.phase.mode(),
		Undoable: len(o.history),
	}
	if n := len(o.history); n > 0 {
		snap.Previous = o.history[n-1].Clone()
	}
	if p, ok := o.phase.(loaded); ok {
		snap.Project = p.project.Clone()
	}
	return snap
}
