package main

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// terminal owns the tcell screen used for the preview and turns its events
// into quit and resize signals.
type terminal struct {
	screen    tcell.Screen
	quit      chan struct{}
	resized   chan struct{}
	closeOnce sync.Once
}

func openTerminal() (*terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.Clear()

	t := &terminal{
		screen:  s,
		quit:    make(chan struct{}),
		resized: make(chan struct{}, 1),
	}
	go t.poll()
	return t, nil
}

func (t *terminal) poll() {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.screen.Sync()
			select {
			case t.resized <- struct{}{}:
			default:
			}
		case *tcell.EventKey:
			if isQuitKey(ev) {
				close(t.quit)
				return
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// Quit is closed when the user presses Esc, Ctrl-C or q.
func (t *terminal) Quit() <-chan struct{} { return t.quit }

// Resized receives a value after the terminal changed size.
func (t *terminal) Resized() <-chan struct{} { return t.resized }

// Close restores the terminal.
func (t *terminal) Close() {
	t.closeOnce.Do(t.screen.Fini)
}
