package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// -------------------- Logger --------------------

// logger is the package-wide structured logger. Safe to use before
// initLogger is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger configures the shared slog logger and calls slog.SetDefault
// so the stdlib log package also routes through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug, // include file:line in debug mode
	})
	logger = slog.New(h)
	slog.SetDefault(logger) // stdlib log.* now routes through slog
}

// -------------------- Main --------------------

func main() {
	device := flag.String("device", "", "preferred MIDI input device name pattern (tried before the built-in list)")
	rawDev := flag.String("raw", "", "raw MIDI device file to read instead of a MIDI port (e.g. /dev/midi1)")
	serialDev := flag.String("serial", "", "serial port carrying a raw MIDI byte stream (e.g. /dev/ttyACM0)")
	baud := flag.Int("baud", 115200, "serial baud rate")
	dictPath := flag.String("dict", "", "JSON dictionary file (default: built-in alphabet)")
	hitFloor := flag.Uint("hit", uint(DefaultTuning().HitFloor), "hit-sensitivity velocity floor (0-127)")
	strokeFloor := flag.Uint("stroke", uint(DefaultTuning().StrokeFloor), "stroke-intensity floor (0-127)")
	idleTicks := flag.Int("idle", DefaultTuning().IdleTicks, "quiet ticks before a sentence completes")
	clock := flag.Duration("clock", 0, "synthesize clock ticks at this interval for MIDI devices that send no timing clock (0 = use device clock)")
	dryRun := flag.Bool("dry-run", false, "log actions instead of emitting keystrokes")
	debug := flag.Bool("debug", false, "enable debug logging (adds source location)")
	flag.Parse()

	initLogger(*debug)

	if *hitFloor > 127 || *strokeFloor > 127 {
		logger.Error("velocity floors must be in 0-127", "hit", *hitFloor, "stroke", *strokeFloor)
		os.Exit(2)
	}
	tuning := Tuning{
		HitFloor:    uint8(*hitFloor),
		StrokeFloor: uint8(*strokeFloor),
		IdleTicks:   *idleTicks,
	}

	logger.Info("mididrumkeyboard starting",
		"hit_floor", tuning.HitFloor,
		"stroke_floor", tuning.StrokeFloor,
		"idle_ticks", tuning.IdleTicks,
		"dry_run", *dryRun,
		"debug", *debug,
	)

	entries := DefaultEntries()
	if *dictPath != "" {
		var err error
		entries, err = LoadEntries(*dictPath)
		if err != nil {
			logger.Error("dictionary load failed", "path", *dictPath, "err", err)
			os.Exit(1)
		}
	}
	dict, err := NewDictionary(entries)
	if err != nil {
		logger.Error("dictionary invalid", "err", err)
		os.Exit(1)
	}
	logger.Info("dictionary loaded", "entries", dict.Len())

	var sink ActionSink
	if *dryRun {
		sink = LogSink{}
	} else {
		sink, err = OpenUinputKeyboard()
		if err != nil {
			logger.Error("keyboard sink init failed", "err", err)
			os.Exit(1)
		}
	}
	if c, ok := sink.(io.Closer); ok {
		defer c.Close()
	}

	engine := NewEngine(tuning, dict, sink)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *rawDev != "":
		err = runRaw(ctx, engine, *rawDev)
	case *serialDev != "":
		err = runSerial(ctx, engine, *serialDev, *baud)
	default:
		err = runMIDI(ctx, engine, *device, *clock)
	}
	if err != nil {
		logger.Error("input source failed", "err", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// -------------------- Input source loops --------------------

func runRaw(ctx context.Context, engine *Engine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	logger.Info("raw: device opened", "path", path)
	return runStream(ctx, engine, f)
}

func runSerial(ctx context.Context, engine *Engine, device string, baud int) error {
	port, err := OpenSerialSource(device, baud)
	if err != nil {
		return err
	}
	return runStream(ctx, engine, port)
}

// runStream decodes a raw byte stream synchronously into the engine, one
// event at a time. Cancellation closes the stream to unblock the read.
func runStream(ctx context.Context, engine *Engine, rc io.ReadCloser) error {
	go func() {
		<-ctx.Done()
		rc.Close()
	}()
	err := DecodeStream(rc, engine.Handle)
	if ctx.Err() != nil {
		return nil // shutting down, a read error here is expected
	}
	rc.Close()
	return err
}

// runMIDI runs the hot-plug watcher loop. Listener callbacks publish
// events to a channel so the engine itself stays single-threaded.
func runMIDI(ctx context.Context, engine *Engine, devicePattern string, clock time.Duration) error {
	if devicePattern != "" {
		PREFERRED_PATTERNS = append([]string{devicePattern}, PREFERRED_PATTERNS...)
	}

	events := make(chan Event, 128)
	resets := make(chan struct{}, 1)

	watcher, err := NewMIDIWatcher(func(ev Event) {
		select {
		case events <- ev:
		default:
			logger.Warn("midi: event dropped, engine backlogged")
		}
	}, func() {
		select {
		case resets <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	rescan := time.NewTicker(time.Second)
	defer rescan.Stop()

	var clockC <-chan time.Time
	if clock > 0 {
		t := time.NewTicker(clock)
		defer t.Stop()
		clockC = t.C
		logger.Info("midi: synthesizing clock", "interval", clock)
	}

	logger.Info("running – waiting for MIDI device")
	watcher.Tick()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			engine.Handle(ev)
		case <-resets:
			logger.Warn("engine reset after device loss")
			engine.Reset()
		case <-rescan.C:
			watcher.Tick()
		case <-clockC:
			engine.Handle(Event{Kind: TickEvent})
		}
	}
}
