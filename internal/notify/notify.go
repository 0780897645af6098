// package notify delivers user-facing notifications for playlist actions
package notify

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
)

// Key identifies a notification message.
type Key string

const (
	SyncSuccess    Key = "sync-success"
	SyncError      Key = "sync-error"
	ListFetchError Key = "list-fetch-error"
	ExportSuccess  Key = "export-success"
	ExportError    Key = "export-error"
	ShareSuccess   Key = "share-success"
)

// Level is the severity a notification is shown with.
type Level int

const (
	Info Level = iota
	Success
	Warning
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Notification is one message for the user. Params fill the {name} placeholders of the message text.
type Notification struct {
	Key    Key
	Level  Level
	Params map[string]string
}

// New builds a notification from alternating key/value params.
func New(key Key, level Level, kv ...string) Notification {
	n := Notification{Key: key, Level: level}
	if len(kv) > 1 {
		n.Params = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			n.Params[kv[i]] = kv[i+1]
		}
	}
	return n
}

var messages = map[Key]string{
	SyncSuccess:    "Playlist synchronized",
	SyncError:      "Playlist sync failed: {error}",
	ListFetchError: "Could not load the playlist tracks",
	ExportSuccess:  "Playlist exported to {path}",
	ExportError:    "Playlist export failed: {error}",
	ShareSuccess:   "Share link: {url}",
}

// Text renders the message for the notification, substituting its params.
// Unknown keys render as the key itself.
func (n Notification) Text() string {
	text, ok := messages[n.Key]
	if !ok {
		text = string(n.Key)
	}
	for k, v := range n.Params {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Text())
}

// Notifier delivers notifications. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to a [log.Logger], warnings at warn level.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(n Notification) {
	kv := []any{"key", string(n.Key)}
	if n.Level == Warning {
		l.logger.Warn(n.Text(), kv...)
		return
	}
	l.logger.Info(n.Text(), kv...)
}

// DesktopNotifier shows notifications through the OS notification center.
type DesktopNotifier struct {
	title  string
	logger *log.Logger
	notify func(title, message string, icon any) error
}

func NewDesktopNotifier(title string, logger *log.Logger) *DesktopNotifier {
	return &DesktopNotifier{title: title, logger: logger, notify: beeep.Notify}
}

func (d *DesktopNotifier) Notify(n Notification) {
	if err := d.notify(d.title, n.Text(), ""); err != nil && d.logger != nil {
		d.logger.Debug("desktop notification failed", "error", err)
	}
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// Recorder keeps every notification it receives. Used by the TUI status line and tests.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Keys returns the keys of the recorded notifications in order.
func (r *Recorder) Keys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]Key, len(r.items))
	for i, n := range r.items {
		keys[i] = n.Key
	}
	return keys
}
