// Command u8emu runs u8x8 display firmware against an emulated
// 128x64 monochrome display.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"

	"github.com/nf/u8emu/display"
	"github.com/nf/u8emu/firmware"
	"github.com/nf/u8emu/host"
	"github.com/nf/u8emu/host/gui"
	"github.com/nf/u8emu/host/term"
	"github.com/nf/u8emu/trace"
)

type config struct {
	debug  bool
	record string
	replay string
	watch  bool
	quiet  bool // log diagnostics only after the session ends
}

func main() {
	log.SetPrefix("u8emu: ")
	log.SetFlags(0)

	var (
		hostFlag   = flag.String("host", "gui", "display `host`: gui, term, or mem")
		debugFlag  = flag.Bool("debug", false, "show the protocol debugger in the terminal (gui host only)")
		recordFlag = flag.String("record", "", "write a protocol trace to `file`")
		replayFlag = flag.String("replay", "", "replay the protocol trace in `file` instead of running the demo menu")
		watchFlag  = flag.Bool("watch", false, "replay the trace again whenever it changes (with -replay)")
		keysFlag   = flag.String("keys", "", "comma-separated menu `keys` for the mem host: up, down, left, right, enter, esc")
		pngFlag    = flag.String("png", "", "write the last frame presented by the mem host to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-host gui|term] [-debug] [-record file] [-replay file [-watch]]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -host mem [-keys list] [-png file] [-record file] [-replay file]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 0 || (*watchFlag && *replayFlag == "") {
		flag.Usage()
	}

	c := config{
		debug:  *debugFlag,
		record: *recordFlag,
		replay: *replayFlag,
		watch:  *watchFlag,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch *hostFlag {
	case "gui":
		driver.Main(func(s screen.Screen) {
			err = run(ctx, gui.Opener(s), c)
		})
	case "term":
		if c.debug {
			log.Fatal("-debug needs the gui host")
		}
		c.quiet = true
		err = run(ctx, term.Open, c)
	case "mem":
		err = runMemory(ctx, c, *keysFlag, *pngFlag)
	default:
		flag.Usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, open display.Opener, c config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		opts   display.Options
		traces []func(display.Msg)
	)
	if c.quiet {
		opts.Logf = func(string, ...any) {}
	}
	if c.record != "" {
		f, err := os.Create(c.record)
		if err != nil {
			return err
		}
		defer f.Close()
		w := trace.NewWriter(f)
		defer func() {
			if err := w.Flush(); err != nil {
				log.Printf("writing trace: %v", err)
			}
		}()
		traces = append(traces, w.Write)
	}

	var dbg *debugView
	if c.debug {
		dbg = newDebugView(cancel)
		log.SetPrefix("")
		log.SetOutput(dbg.log)
		go func() {
			if err := dbg.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("u8emu: ")
			cancel()
		}()
		defer dbg.Stop()
	}

	var s *display.Session
	if dbg != nil {
		traces = append(traces, func(m display.Msg) { dbg.Trace(s, m) })
	}
	if len(traces) > 0 {
		opts.Trace = func(m display.Msg) {
			for _, t := range traces {
				t(m)
			}
		}
	}

	s = display.NewSession(open, opts)
	if err := s.Open(); err != nil {
		return err
	}
	defer func() {
		s.Close()
		if c.quiet {
			for _, d := range s.Diagnostics() {
				log.Printf("%s: %v", d.Op, d.Err)
			}
		}
	}()

	var err error
	if c.replay != "" {
		err = replay(ctx, s, c.replay, c.watch)
	} else {
		d := firmware.NewDriver(s.HandleMessage)
		if err = d.Init(); err == nil {
			err = firmware.DemoMenu().Run(ctx, d, s)
		}
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

func runMemory(ctx context.Context, c config, keys, pngFile string) error {
	if c.debug || c.watch {
		return errors.New("-debug and -watch need an interactive host")
	}
	events, err := parseKeys(keys)
	if err != nil {
		return err
	}
	h := host.NewMemory(display.DefaultWindow)
	go func() {
		for _, e := range events {
			h.Send(e)
		}
		h.Close()
	}()
	open := func(display.WindowConfig) (display.Host, error) { return h, nil }
	if err := run(ctx, open, c); err != nil {
		return err
	}
	if pngFile == "" {
		return nil
	}
	f, err := os.Create(pngFile)
	if err != nil {
		return err
	}
	if err := png.Encode(f, h.Screen()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var keyNames = map[string]key.Code{
	"up":    key.CodeUpArrow,
	"down":  key.CodeDownArrow,
	"left":  key.CodeLeftArrow,
	"right": key.CodeRightArrow,
	"enter": key.CodeReturnEnter,
	"esc":   key.CodeEscape,
}

// parseKeys returns a press and release event for each named key.
func parseKeys(s string) ([]any, error) {
	var events []any
	if s == "" {
		return nil, nil
	}
	for _, name := range strings.Split(s, ",") {
		code, ok := keyNames[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		events = append(events,
			key.Event{Code: code, Direction: key.DirPress},
			key.Event{Code: code, Direction: key.DirRelease})
	}
	return events, nil
}
