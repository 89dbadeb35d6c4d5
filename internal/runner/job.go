package runner

// EventKind distinguishes progress updates from the terminal event.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventDone     EventKind = "done"
)

// Event is delivered on Job.Events. The final event has Kind EventDone and
// carries the run's error, if any; the channel is closed after it.
type Event struct {
	Kind    EventKind
	Percent int
	Err     error
}

// eventBuffer holds every distinct percentage of one run (0-100 plus the undo
// reset to 0) and the terminal event.
const eventBuffer = 104

// Job is a running or finished organize or undo run.
type Job[T any] struct {
	ID        string
	Operation string

	events      chan Event
	done        chan struct{}
	lastPercent int
	result      T
	err         error
}

func newJob[T any](id, operation string) *Job[T] {
	return &Job[T]{
		ID:          id,
		Operation:   operation,
		events:      make(chan Event, eventBuffer),
		done:        make(chan struct{}),
		lastPercent: -1,
	}
}

// Events streams progress and the terminal event. Consumers may ignore it;
// the worker never blocks on a full channel.
func (j *Job[T]) Events() <-chan Event {
	return j.events
}

// Done is closed once the run has finished.
func (j *Job[T]) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the run finishes and returns its outcome.
func (j *Job[T]) Wait() (T, error) {
	<-j.done
	return j.result, j.err
}

// progress runs on the worker goroutine only.
func (j *Job[T]) progress(percent int) {
	if percent == j.lastPercent {
		return
	}
	j.lastPercent = percent
	// keep one slot free for the terminal event
	if len(j.events) >= cap(j.events)-1 {
		return
	}
	j.events <- Event{Kind: EventProgress, Percent: percent}
}

func (j *Job[T]) finish(result T, err error) {
	j.result = result
	j.err = err
	j.events <- Event{Kind: EventDone, Err: err}
	close(j.events)
	close(j.done)
}
