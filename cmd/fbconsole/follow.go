package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// follower tails a set of files. Each file stays open so reads resume where
// the previous one stopped.
type follower struct {
	watcher   *fsnotify.Watcher
	files     map[string]*os.File // keyed by cleaned path
	order     []string
	changed   chan string
	done      chan struct{}
	closeOnce sync.Once
}

func newFollower(paths []string) (*follower, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fl := &follower{
		watcher: w,
		files:   make(map[string]*os.File, len(paths)),
		changed: make(chan string, 16),
		done:    make(chan struct{}),
	}
	for _, p := range paths {
		name := filepath.Clean(p)
		if _, ok := fl.files[name]; ok {
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			fl.Close()
			return nil, err
		}
		fl.files[name] = f
		fl.order = append(fl.order, name)
		if err := w.Add(name); err != nil {
			fl.Close()
			return nil, fmt.Errorf("watch %s: %w", name, err)
		}
	}

	go fl.forward()
	return fl, nil
}

// forward turns write events into file names on the changed channel.
func (fl *follower) forward() {
	defer close(fl.changed)
	for {
		select {
		case <-fl.done:
			return
		case ev, ok := <-fl.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) {
				continue
			}
			select {
			case fl.changed <- filepath.Clean(ev.Name):
			case <-fl.done:
				return
			}
		}
	}
}

// Changed delivers the name of each file that was written to.
func (fl *follower) Changed() <-chan string { return fl.changed }

// Errors delivers watcher errors.
func (fl *follower) Errors() <-chan error { return fl.watcher.Errors }

// Drain copies everything appended to name since the last read into w.
func (fl *follower) Drain(name string, w io.Writer) error {
	f, ok := fl.files[name]
	if !ok {
		return nil
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// DrainAll drains every file in command line order.
func (fl *follower) DrainAll(w io.Writer) error {
	for _, name := range fl.order {
		if err := fl.Drain(name, w); err != nil {
			return err
		}
	}
	return nil
}

// Close stops watching and closes the files.
func (fl *follower) Close() error {
	var err error
	fl.closeOnce.Do(func() {
		close(fl.done)
		err = fl.watcher.Close()
		for _, f := range fl.files {
			f.Close()
		}
	})
	return err
}
