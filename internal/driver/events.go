package driver

// Stage describes a pipeline phase.
type Stage string

const (
	// StageParse is the per-file lex+parse stage.
	StageParse Stage = "parse"
	// StageLower is the AST to package-fragment stage.
	StageLower Stage = "lower"
	// StageLink is the cross-package resolution stage.
	StageLink Stage = "link"
	// StageGenerate is the backend emission stage.
	StageGenerate Stage = "generate"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task produced errors.
	StatusError Status = "error"
)

// Event reports progress for a file, or for the whole run when File is
// empty.
type Event struct {
	File   string
	Stage  Stage
	Status Status
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

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
