package main

// Tuning holds the engine thresholds.
type Tuning struct {
	// HitFloor is the minimum raw velocity for a pad hit to register at
	// all; softer readings are noise.
	HitFloor uint8
	// StrokeFloor is the minimum decayed intensity considered an active
	// strike for crossing detection.
	StrokeFloor uint8
	// IdleTicks is the number of quiet clock ticks after which an
	// in-progress sentence is considered complete (it completes on the
	// tick that exceeds this count).
	IdleTicks int
}

// DefaultTuning mirrors the thresholds the kit was tuned with.
func DefaultTuning() Tuning {
	return Tuning{HitFloor: 0x0f, StrokeFloor: 0x05, IdleTicks: 5}
}

// ActionSink consumes a matched output action and performs the
// platform-specific emission (key press immediately followed by release).
type ActionSink interface {
	Emit(OutputAction) error
}

// LogSink logs actions instead of emitting them. Used for -dry-run and on
// platforms without a real keyboard sink.
type LogSink struct{}

func (LogSink) Emit(a OutputAction) error {
	logger.Info("action (dry-run)", "key", a.Key, "shift", a.Mods&ModShift != 0)
	return nil
}

// Engine is the stroke-detection / chord-accumulation / sentence-matching
// core. It is a synchronous, single-threaded consumer: feed it Tick and
// PadHit events in arrival order and its behavior is a deterministic
// function of that sequence plus the tuning.
type Engine struct {
	tracker  *VelocityTracker
	sentence *SentenceBuffer
	dict     *Dictionary
	sink     ActionSink

	// OnUnmatched receives the literal text of completed sentences with
	// no dictionary entry. Defaults to a log warning.
	OnUnmatched func(sentence string)
}

func NewEngine(tn Tuning, dict *Dictionary, sink ActionSink) *Engine {
	return &Engine{
		tracker:  NewVelocityTracker(tn.HitFloor, tn.StrokeFloor),
		sentence: NewSentenceBuffer(tn.IdleTicks),
		dict:     dict,
		sink:     sink,
		OnUnmatched: func(sentence string) {
			logger.Warn("unknown sequence", "sentence", sentence)
		},
	}
}

// Handle processes one input event. Hits on notes that don't belong to
// the kit are silently dropped.
func (e *Engine) Handle(ev Event) {
	switch ev.Kind {
	case TickEvent:
		e.tick()
	case HitEvent:
		if p, ok := padForNote(ev.Note); ok {
			e.tracker.Hit(p, ev.Velocity)
		} else {
			logger.Debug("engine: hit on unknown note", "note", ev.Note, "velocity", ev.Velocity)
		}
	}
}

func (e *Engine) tick() {
	crossed := e.tracker.Tick()
	if token := RenderChord(crossed); token != "" {
		logger.Debug("engine: chord", "token", token)
		e.sentence.Append(token)
		return
	}
	if sentence, done := e.sentence.Idle(); done {
		e.match(sentence)
	}
}

func (e *Engine) match(sentence string) {
	action, ok := e.dict.Lookup(sentence)
	if !ok {
		e.OnUnmatched(sentence)
		return
	}
	logger.Info("sentence matched", "sentence", sentence, "key", action.Key, "shift", action.Mods&ModShift != 0)
	if err := e.sink.Emit(action); err != nil {
		logger.Error("engine: action emit failed", "key", action.Key, "err", err)
	}
}

// Reset returns the engine to its freshly-initialized state: intensities
// zeroed, sentence buffer empty. Used when the input device disappears so
// a half-built sentence doesn't survive the reconnect.
func (e *Engine) Reset() {
	e.tracker.Reset()
	e.sentence.Reset()
}
