package store

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard/internal/storage"
	"github.com/nibzard/taskboard/internal/task"
)

// DefaultKey is the slot name tasks are persisted under.
const DefaultKey = "taskManagerTasks"

// maxIDAttempts bounds retries when the generator returns an id already in use.
const maxIDAttempts = 8

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage slot name.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithPriorities sets the accepted priority labels.
func WithPriorities(set task.PrioritySet) Option {
	return func(s *Store) {
		s.priorities = set
	}
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(gen task.IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithListener subscribes l before the initial load.
func WithListener(l Listener) Option {
	return func(s *Store) {
		s.listeners.Add(l)
	}
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFilter sets the initial view filter.
func WithFilter(f task.Filter) Option {
	return func(s *Store) {
		s.filter = f
	}
}

type pendingAction struct {
	Confirmation
	run func() bool
}

// Store owns the task collection. See the package documentation for the
// mutation cycle and the confirmation flow.
type Store struct {
	backend    storage.Backend
	key        string
	priorities task.PrioritySet
	ids        task.IDGenerator
	now        func() time.Time
	logger     *log.Logger
	listeners  *MultiListener

	tasks   []task.Task
	filter  task.Filter
	pending *pendingAction

	// complete tracks whether the collection was at 100% after the last
	// mutation, so the milestone fires on transitions only.
	complete bool

	loadErr    error
	persistErr error
}

// New creates a store on backend and loads the persisted slot. A missing
// slot yields an empty collection. An unreadable or invalid slot also yields
// an empty collection; the failure is logged and kept in LoadErr.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		key:        DefaultKey,
		priorities: task.DefaultPrioritySet(),
		ids:        task.UUIDGenerator{},
		now:        time.Now,
		logger:     log.New(io.Discard),
		listeners:  NewMultiListener(),
		filter:     task.FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := task.ParseFilter(string(s.filter)); err != nil {
		s.filter = task.FilterAll
	}
	s.load()
	return s
}

func (s *Store) load() {
	if s.backend == nil {
		return
	}
	data, err := s.backend.Get(s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("no saved tasks", "key", s.key)
		return
	}
	if err == nil {
		var tasks []task.Task
		tasks, err = task.Decode(data)
		if err == nil {
			s.tasks = tasks
			s.complete = task.ComputeStats(s.tasks).AllComplete()
			s.logger.Debug("loaded tasks", "key", s.key, "count", len(s.tasks))
			return
		}
	}
	s.loadErr = &PersistenceError{Op: "load", Key: s.key, Err: err}
	s.logger.Warn("discarding saved tasks", "key", s.key, "err", err)
}

// Subscribe adds a listener for subsequent events.
func (s *Store) Subscribe(l Listener) {
	s.listeners.Add(l)
}

// LoadErr returns the diagnostic from the initial load, or nil.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// PersistErr returns the error of the most recent save attempt, or nil if it
// succeeded.
func (s *Store) PersistErr() error {
	return s.persistErr
}

// Key returns the storage slot name.
func (s *Store) Key() string {
	return s.key
}

// Priorities returns the accepted priority labels.
func (s *Store) Priorities() task.PrioritySet {
	return s.priorities
}

// AddTask trims rawText and prepends a new task. Empty text is rejected with
// a *task.ValidationError and leaves the store untouched. Priorities outside
// the configured set resolve to the default label.
func (s *Store) AddTask(rawText string, priority task.Priority) (task.Task, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		s.reject(Event{Reason: ReasonEmptyText})
		return task.Task{}, &task.ValidationError{Path: "text", Err: task.ErrEmptyText}
	}

	id, err := s.newID()
	if err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		ID:        id,
		Text:      text,
		Priority:  s.priorities.Resolve(priority),
		Completed: false,
		CreatedAt: s.now().UTC(),
	}
	s.tasks = append([]task.Task{t}, s.tasks...)
	s.logger.Debug("task added", "id", t.ID, "priority", t.Priority)
	s.commit()
	return t, nil
}

func (s *Store) newID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.ids.NewID()
		if id != "" && task.Index(s.tasks, id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate task id: %d attempts collided", maxIDAttempts)
}

// ToggleTask flips the completion flag of the task with id. An unknown id is
// ignored and reported as false.
func (s *Store) ToggleTask(id string) bool {
	i := task.Index(s.tasks, id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.Debug("task toggled", "id", id, "completed", s.tasks[i].Completed)
	s.commit()
	return true
}

// EditTask replaces the text of the task with id. Empty text, unchanged text
// and unknown ids are silent no-ops. It reports whether the task changed.
func (s *Store) EditTask(id, newText string) bool {
	text := strings.TrimSpace(newText)
	if text == "" {
		return false
	}
	i := task.Index(s.tasks, id)
	if i < 0 || s.tasks[i].Text == text {
		return false
	}
	s.tasks[i].Text = text
	s.logger.Debug("task edited", "id", id)
	s.commit()
	return true
}

// SetFilter changes the view filter. Task data is not persisted.
func (s *Store) SetFilter(value string) error {
	f, err := task.ParseFilter(value)
	if err != nil {
		s.reject(Event{Reason: ReasonInvalidFilter, Err: err})
		return err
	}
	s.filter = f
	s.notifySnapshot()
	return nil
}

// RequestDelete arms a confirmation that removes the task with id. It returns
// false, arming nothing, when no such task exists.
func (s *Store) RequestDelete(id string) bool {
	if task.Index(s.tasks, id) < 0 {
		return false
	}
	s.arm(Confirmation{
		Kind:        ConfirmDelete,
		Description: "Are you sure you want to delete this task?",
		TaskID:      id,
	}, func() bool {
		i := task.Index(s.tasks, id)
		if i < 0 {
			return false
		}
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		return true
	})
	return true
}

// RequestClearCompleted arms a confirmation that removes every completed
// task. It returns ErrNothingToClear when none are completed.
func (s *Store) RequestClearCompleted() error {
	n := task.ComputeStats(s.tasks).Completed
	if n == 0 {
		s.reject(Event{Reason: ReasonNothingToClear, Kind: ConfirmClearCompleted})
		return ErrNothingToClear
	}
	s.arm(Confirmation{
		Kind:        ConfirmClearCompleted,
		Description: fmt.Sprintf("Are you sure you want to delete %s?", plural(n, "completed task")),
	}, func() bool {
		kept := task.Apply(s.tasks, task.FilterActive)
		if len(kept) == len(s.tasks) {
			return false
		}
		s.tasks = kept
		return true
	})
	return nil
}

// RequestClearAll arms a confirmation that removes every task. It returns
// ErrNothingToClear when the store is empty.
func (s *Store) RequestClearAll() error {
	n := len(s.tasks)
	if n == 0 {
		s.reject(Event{Reason: ReasonNothingToClear, Kind: ConfirmClearAll})
		return ErrNothingToClear
	}
	s.arm(Confirmation{
		Kind:        ConfirmClearAll,
		Description: fmt.Sprintf("Are you sure you want to delete all %s?", plural(n, "task")),
	}, func() bool {
		if len(s.tasks) == 0 {
			return false
		}
		s.tasks = nil
		return true
	})
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// arm replaces any pending confirmation.
func (s *Store) arm(c Confirmation, run func() bool) {
	if s.pending != nil {
		s.logger.Debug("replacing pending confirmation", "kind", s.pending.Kind)
	}
	s.pending = &pendingAction{Confirmation: c, run: run}
	s.emit(Event{
		Type:        EventConfirmRequested,
		Kind:        c.Kind,
		Description: c.Description,
		TaskID:      c.TaskID,
	})
}

// Pending returns the armed confirmation, if any.
func (s *Store) Pending() (Confirmation, bool) {
	if s.pending == nil {
		return Confirmation{}, false
	}
	return s.pending.Confirmation, true
}

// ConfirmPending runs the armed action and clears the slot. It returns false
// when nothing was armed.
func (s *Store) ConfirmPending() bool {
	p := s.pending
	if p == nil {
		return false
	}
	s.pending = nil
	if p.run() {
		s.logger.Debug("confirmation executed", "kind", p.Kind)
		s.commit()
	}
	s.emit(Event{
		Type:        EventConfirmResolved,
		Kind:        p.Kind,
		Description: p.Description,
		TaskID:      p.TaskID,
		Executed:    true,
	})
	return true
}

// CancelPending drops the armed action without running it. It returns false
// when nothing was armed.
func (s *Store) CancelPending() bool {
	p := s.pending
	if p == nil {
		return false
	}
	s.pending = nil
	s.emit(Event{
		Type:        EventConfirmResolved,
		Kind:        p.Kind,
		Description: p.Description,
		TaskID:      p.TaskID,
	})
	return true
}

// Filter returns the active view filter.
func (s *Store) Filter() task.Filter {
	return s.filter
}

// Tasks returns a copy of the whole collection in store order.
func (s *Store) Tasks() []task.Task {
	return task.Clone(s.tasks)
}

// Task returns the task with id.
func (s *Store) Task(id string) (task.Task, bool) {
	i := task.Index(s.tasks, id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

// VisibleTasks returns the tasks matching the active filter in store order.
func (s *Store) VisibleTasks() []task.Task {
	return task.Apply(s.tasks, s.filter)
}

// Stats summarizes the whole collection, independent of the filter.
func (s *Store) Stats() task.Stats {
	return task.ComputeStats(s.tasks)
}

// Snapshot returns the current view.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Filter: s.filter,
		Tasks:  s.VisibleTasks(),
		Stats:  s.Stats(),
	}
}

// commit persists, notifies and checks the completion milestone.
func (s *Store) commit() {
	s.persist()
	s.notifySnapshot()

	complete := s.Stats().AllComplete()
	if complete && !s.complete {
		s.logger.Info("all tasks completed")
		s.emit(Event{Type: EventAllComplete})
	}
	s.complete = complete
}

func (s *Store) persist() {
	s.persistErr = nil
	if s.backend == nil {
		return
	}
	data, err := task.Encode(s.tasks)
	if err == nil {
		err = s.backend.Set(s.key, data)
	}
	if err != nil {
		perr := &PersistenceError{Op: "save", Key: s.key, Err: err}
		s.persistErr = perr
		s.logger.Warn("failed to save tasks", "key", s.key, "err", err)
		s.emit(Event{Type: EventPersistFailed, Err: perr})
	}
}

func (s *Store) notifySnapshot() {
	snap := s.Snapshot()
	s.emit(Event{Type: EventSnapshot, Snapshot: &snap})
}

func (s *Store) reject(e Event) {
	e.Type = EventRejected
	s.logger.Debug("operation rejected", "reason", e.Reason)
	s.emit(e)
}

func (s *Store) emit(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	s.listeners.Notify(e)
}
