package lesson

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

var unsafeTopicChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

const (
	maxTopicStem    = 50
	scriptIDTimeFmt = "20060102_150405"
	maxMintAttempts = 1000
)

// SanitizeTopic replaces every character outside [A-Za-z0-9_-] with an
// underscore and caps the result at 50 characters.
func SanitizeTopic(topic string) string {
	s := unsafeTopicChars.ReplaceAllString(topic, "_")
	if len(s) > maxTopicStem {
		s = s[:maxTopicStem]
	}
	return s
}

// Reserver claims a script id. Reserve reports false when the id is already
// taken, possibly by another process.
type Reserver interface {
	Reserve(id string) (bool, error)
}

// DirReserver claims ids with marker files created exclusively under Dir.
// Taken also reports an id as used when any of its artifacts already exist,
// which covers output written before markers were kept.
type DirReserver struct {
	Dir   string
	Taken func(id string) bool
}

func (r DirReserver) Reserve(id string) (bool, error) {
	if r.Taken != nil && r.Taken(id) {
		return false, nil
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return false, fmt.Errorf("create id dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(r.Dir, id), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reserve script id: %w", err)
	}
	return true, f.Close()
}

type mintEntry struct {
	stamp string
	next  int
}

// IDMinter hands out script identifiers of the form
// "{sanitized topic}_{YYYYMMDD_HHMMSS}". Two runs on the same topic within the
// same second get distinct identifiers via a numeric suffix. With a Reserver
// the identifiers are also unique across processes sharing its directory.
type IDMinter struct {
	now      func() time.Time
	reserver Reserver

	mu   sync.Mutex
	seen map[string]mintEntry
}

func NewIDMinter(now func() time.Time) *IDMinter {
	if now == nil {
		now = time.Now
	}
	return &IDMinter{now: now, seen: map[string]mintEntry{}}
}

// WithReserver returns m after making every minted id pass through r.
func (m *IDMinter) WithReserver(r Reserver) *IDMinter {
	m.mu.Lock()
	m.reserver = r
	m.mu.Unlock()
	return m
}

func (m *IDMinter) Mint(topic string) (string, error) {
	stamp := m.now().Format(scriptIDTimeFmt)
	base := SanitizeTopic(topic) + "_" + stamp
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune(stamp)
	n := m.seen[base].next
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		id := base
		if n > 0 {
			id = fmt.Sprintf("%s_%d", base, n+1)
		}
		n++
		if m.reserver != nil {
			ok, err := m.reserver.Reserve(id)
			if err != nil {
				return "", err
			}
			if !ok {
				continue
			}
		}
		m.seen[base] = mintEntry{stamp: stamp, next: n}
		return id, nil
	}
	return "", fmt.Errorf("no free script id for %q", base)
}

// prune drops entries from seconds earlier than stamp. The timestamp layout
// sorts lexically.
func (m *IDMinter) prune(stamp string) {
	for k, e := range m.seen {
		if e.stamp < stamp {
			delete(m.seen, k)
		}
	}
}

// Tracked is the number of id bases the minter currently remembers.
func (m *IDMinter) Tracked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}
