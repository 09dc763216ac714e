package driver

// Stage describes what the driver is doing with a document.
type Stage string

const (
	// StageLoad reads and normalizes the document.
	StageLoad Stage = "load"
	// StageTransform runs the annotate or repair pass.
	StageTransform Stage = "transform"
	// StageVerify compares fenced block structure before and after.
	StageVerify Stage = "verify"
	// StageWrite persists the rewritten document.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the document is waiting.
	StatusQueued Status = "queued"
	// StatusWorking indicates the document is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the document is finished.
	StatusDone Status = "done"
	// StatusError indicates processing failed.
	StatusError Status = "error"
)

// Event reports progress for a document (or for the whole run when File is empty).
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Err    error
	Fixed  int
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
