package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileOp represents the type of file operation
type FileOp int

const (
	// FileAdded indicates a new file or directory appeared
	FileAdded FileOp = iota
	// FileChanged indicates a file was written to
	FileChanged
	// FileDeleted indicates a file was removed or renamed away
	FileDeleted
)

// String returns a human-readable representation of the file operation
func (op FileOp) String() string {
	switch op {
	case FileAdded:
		return "added"
	case FileChanged:
		return "changed"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileEvent is a relevant change below the watched root.
type FileEvent struct {
	Path      string // Absolute path to the file
	Op        FileOp
	Timestamp time.Time
}

// FileWatcher watches a directory tree for source file changes.
//
// Hidden directories and node_modules are never watched. Events for
// dotfiles, ".d.ts" files and the configured output file are dropped.
type FileWatcher struct {
	watcher    *fsnotify.Watcher
	events     chan FileEvent
	errors     chan error
	done       chan struct{}
	rootDir    string
	outputFile string

	mu            sync.Mutex
	debounceDelay time.Duration
	debounceMap   map[string]*time.Timer
	closed        bool
}

// DefaultDebounceDelay is the default delay for coalescing rapid writes
const DefaultDebounceDelay = 100 * time.Millisecond

// NewFileWatcher starts watching rootDir and every visible directory below it.
func NewFileWatcher(rootDir, outputFile string) (*FileWatcher, error) {
	rootDir = filepath.Clean(rootDir)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher:       watcher,
		events:        make(chan FileEvent, 100),
		errors:        make(chan error, 10),
		done:          make(chan struct{}),
		rootDir:       rootDir,
		outputFile:    outputFile,
		debounceDelay: DefaultDebounceDelay,
		debounceMap:   make(map[string]*time.Timer),
	}

	if err := fw.addRecursive(rootDir); err != nil {
		watcher.Close()
		return nil, err
	}

	go fw.processEvents()

	return fw, nil
}

// addRecursive adds dir and its visible subdirectories to the watcher
func (fw *FileWatcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if path != dir && ignoredDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			if os.IsPermission(err) {
				return nil
			}
			return err
		}
		return nil
	})
}

// processEvents processes fsnotify events and converts them to FileEvents
func (fw *FileWatcher) processEvents() {
	for {
		select {
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case fw.errors <- err:
			default:
				// Error channel full, drop the error
			}
		}
	}
}

// handleEvent processes a single fsnotify event
func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() && !ignoredDir(filepath.Base(path)) {
			if err := fw.addRecursive(path); err != nil {
				select {
				case fw.errors <- err:
				default:
				}
			}
		}
	}

	if fw.Ignored(path) {
		return
	}

	var op FileOp
	switch {
	case event.Has(fsnotify.Create):
		op = FileAdded
	case event.Has(fsnotify.Write):
		op = FileChanged
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = FileDeleted
	default:
		// chmod
		return
	}

	if op == FileChanged {
		fw.debounce(path, op)
	} else {
		fw.sendEvent(path, op)
	}
}

// Ignored reports whether events for path are dropped.
func (fw *FileWatcher) Ignored(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, ".d.ts") ||
		name == fw.outputFile ||
		name == "node_modules"
}

func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// debounce coalesces rapid writes for the same file
func (fw *FileWatcher) debounce(path string, op FileOp) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return
	}

	if timer, exists := fw.debounceMap[path]; exists {
		timer.Stop()
	}

	fw.debounceMap[path] = time.AfterFunc(fw.debounceDelay, func() {
		fw.mu.Lock()
		delete(fw.debounceMap, path)
		fw.mu.Unlock()

		fw.sendEvent(path, op)
	})
}

// sendEvent sends a FileEvent to the events channel
func (fw *FileWatcher) sendEvent(path string, op FileOp) {
	event := FileEvent{
		Path:      path,
		Op:        op,
		Timestamp: time.Now(),
	}

	select {
	case fw.events <- event:
	case <-fw.done:
	default:
		// Events channel full, drop the event
	}
}

// Events returns the channel for receiving file events
func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

// Errors returns the channel for receiving errors
func (fw *FileWatcher) Errors() <-chan error {
	return fw.errors
}

// Close stops the file watcher and releases resources
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true

	for _, timer := range fw.debounceMap {
		timer.Stop()
	}
	fw.debounceMap = nil
	fw.mu.Unlock()

	close(fw.done)

	return fw.watcher.Close()
}

// RootDir returns the root directory being watched
func (fw *FileWatcher) RootDir() string {
	return fw.rootDir
}

// SetDebounceDelay sets the debounce delay for coalescing rapid writes
// This should only be called before the watcher starts receiving events
func (fw *FileWatcher) SetDebounceDelay(delay time.Duration) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.debounceDelay = delay
}
