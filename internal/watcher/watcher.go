// Package watcher reports changes to a fixed set of files (the config file
// and .env) so long-running modes can reload them.
package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// stamp identifies one version of a file. A missing file has the zero stamp.
type stamp struct {
	size    int64
	modTime time.Time
}

type Watcher struct {
	files        map[string]stamp // path -> last seen version
	mu           sync.Mutex
	pollInterval time.Duration
	onChange     func([]string)
	stop         chan struct{}
	wg           sync.WaitGroup
}

func New(paths []string, pollInterval time.Duration, onChange func([]string)) *Watcher {
	w := &Watcher{
		files:        make(map[string]stamp),
		pollInterval: pollInterval,
		onChange:     onChange,
		stop:         make(chan struct{}),
	}
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		w.files[p] = statFile(p)
	}
	return w
}

func statFile(path string) stamp {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}
	return stamp{size: info.Size(), modTime: info.ModTime()}
}

// Start begins watching with fsnotify + polling fallback. Parent directories
// are watched rather than the files so editors that replace the file on save
// are still seen.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		dirs := map[string]bool{}
		w.mu.Lock()
		for p := range w.files {
			dirs[filepath.Dir(p)] = true
		}
		w.mu.Unlock()
		for dir := range dirs {
			_ = fsw.Add(dir)
		}

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				select {
				case event, ok := <-fsw.Events:
					if !ok {
						return
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
						w.check([]string{event.Name})
					}
				case <-fsw.Errors:
				case <-w.stop:
					fsw.Close()
					return
				}
			}
		}()
	}

	// Polling fallback (always runs as safety net)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.check(nil)
			case <-w.stop:
				return
			}
		}
	}()

	return nil
}

// Stop signals goroutines to exit and waits for them to finish.
func (w *Watcher) Stop() {
	close(w.stop)
	w.wg.Wait()
}

// check compares the given paths (all watched paths when nil) with their
// last seen version and reports the ones that changed.
func (w *Watcher) check(paths []string) {
	w.mu.Lock()
	if paths == nil {
		for p := range w.files {
			paths = append(paths, p)
		}
	}
	var changed []string
	for _, p := range paths {
		last, watched := w.files[p]
		if !watched {
			continue
		}
		if now := statFile(p); now != last {
			w.files[p] = now
			changed = append(changed, p)
		}
	}
	w.mu.Unlock()

	if len(changed) > 0 && w.onChange != nil {
		sort.Strings(changed)
		w.onChange(changed)
	}
}
