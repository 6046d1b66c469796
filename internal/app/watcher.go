package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// sheetWatcher reports debounced changes to sheet files and the values file.
type sheetWatcher struct {
	Changes <-chan struct{} // Read-only external channel

	changes    chan struct{}
	done       chan struct{}
	watcher    *fsnotify.Watcher
	dirs       []string
	valuesFile string
	debounce   time.Duration
}

// newSheetWatcher prepares a watcher over every directory that can hold a
// sheet: the given directories with their subdirectories, and the parent
// directory of every given file.
func newSheetWatcher(paths []string, valuesFile string, debounce time.Duration) (*sheetWatcher, error) {
	var dirs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			dirs = append(dirs, filepath.Dir(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if valuesFile != "" {
		valuesFile = filepath.Clean(valuesFile)
		dirs = append(dirs, filepath.Dir(valuesFile))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan struct{}, 1)
	return &sheetWatcher{
		Changes:    ch,
		changes:    ch,
		done:       make(chan struct{}),
		watcher:    fw,
		dirs:       dirs,
		valuesFile: valuesFile,
		debounce:   debounce,
	}, nil
}

// Start begins watching.
func (w *sheetWatcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.watcher.Close()
			return err
		}
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *sheetWatcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *sheetWatcher) loop() {
	defer close(w.done)

	// A burst of events produces one change once it has been quiet for the
	// debounce interval.
	var last time.Time
	pending := false
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isSheetFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(last) >= w.debounce {
				pending = false
				w.emit()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// emit signals a change without blocking; an unread signal already covers it.
func (w *sheetWatcher) emit() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *sheetWatcher) isSheetFile(name string) bool {
	if filepath.Ext(name) == ".hcl" {
		return true
	}
	return w.valuesFile != "" && filepath.Clean(name) == w.valuesFile
}
