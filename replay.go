package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/u8emu/display"
	"github.com/nf/u8emu/trace"
)

// replay plays the trace in file into s. Unless watching, it then waits
// for the window to close. When watching, the trace is played again
// each time the file changes, until ctx is done.
func replay(ctx context.Context, s *display.Session, file string, watch bool) error {
	file = filepath.Clean(file)
	if err := playFile(s, file); err != nil {
		return err
	}
	if !watch {
		for {
			if _, err := s.WaitMenuEvent(ctx); err != nil {
				if errors.Is(err, display.ErrClosed) {
					return nil
				}
				return err
			}
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return err
	}

	pump := time.NewTicker(time.Second / 60)
	defer pump.Stop()
	var reload <-chan time.Time
	for {
		select {
		case ev := <-watcher.Event:
			if ev.Name == file && !ev.IsAttrib() {
				reload = time.After(100 * time.Millisecond)
			}
		case <-reload:
			log.Printf("replay: %s changed", filepath.Base(file))
			if err := playFile(s, file); err != nil {
				log.Printf("replay: %v", err)
			}
		case err := <-watcher.Error:
			log.Printf("replay: watcher: %v", err)
		case <-pump.C:
			s.PumpEvents()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func playFile(s *display.Session, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	msgs, err := trace.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %v", file, err)
	}
	return trace.Play(msgs, s.HandleMessage)
}
