package watcher

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of config event
type EventType string

const (
	EventConfigChange EventType = "config_change"
)

// Source tells where a change came from.
const (
	SourceAPI  = "api"
	SourceDisk = "disk"
)

// Event is the payload sent to clients
type Event struct {
	Type   EventType `json:"type"`
	Path   string    `json:"path"`
	Source string    `json:"source"`
}

const debounceWindow = 500 * time.Millisecond

// Service broadcasts config change events. When created with a file path it also
// watches that file for edits made outside the API.
type Service struct {
	watcher *fsnotify.Watcher
	file    string
	name    string
	clients map[chan Event]bool
	mu      sync.Mutex
	last    time.Time
	done    chan struct{}
	once    sync.Once
}

// New creates a service that only relays Notify calls.
func New(name string) *Service {
	return &Service{
		name:    name,
		clients: make(map[chan Event]bool),
		done:    make(chan struct{}),
	}
}

// NewFileWatcher creates a service that also watches file on disk.
func NewFileWatcher(file string) (*Service, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		w.Close()
		return nil, err
	}
	s := New(filepath.Base(abs))
	s.watcher = w
	s.file = abs
	return s, nil
}

// Start begins watching the filesystem. It is a no-op without a file.
func (s *Service) Start() error {
	if s.watcher == nil {
		return nil
	}
	// Watch the directory: the file is replaced by rename, which drops a
	// watch placed on the file itself.
	if err := s.watcher.Add(filepath.Dir(s.file)); err != nil {
		return err
	}
	go s.loop()
	return nil
}

// Stop stops the watcher and closes all subscriber channels.
func (s *Service) Stop() {
	s.once.Do(func() {
		close(s.done)
		if s.watcher != nil {
			s.watcher.Close()
		}
		s.mu.Lock()
		for ch := range s.clients {
			delete(s.clients, ch)
			close(ch)
		}
		s.mu.Unlock()
	})
}

// Subscribe listens for events
func (s *Service) Subscribe() chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, 16)
	select {
	case <-s.done:
		close(ch)
	default:
		s.clients[ch] = true
	}
	return ch
}

// Unsubscribe removes a listener
func (s *Service) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[ch]; ok {
		delete(s.clients, ch)
		close(ch)
	}
}

// Notify announces a change made through the API. Disk events for the same
// write arriving within the debounce window are suppressed.
func (s *Service) Notify() {
	s.emit(SourceAPI, true)
}

func (s *Service) emit(source string, force bool) {
	s.mu.Lock()
	if !force && time.Since(s.last) < debounceWindow {
		s.mu.Unlock()
		log.Printf("[WATCHER] Debounced: %s", s.name)
		return
	}
	s.last = time.Now()
	s.mu.Unlock()
	s.broadcast(Event{Type: EventConfigChange, Path: s.name, Source: source})
}

func (s *Service) loop() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			if filepath.Clean(event.Name) != s.file {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.emit(SourceDisk, false)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[WATCHER] error: %v", err)
		}
	}
}

func (s *Service) broadcast(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- e:
		default:
			// Drop event if client too slow
		}
	}
}
