package ledger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"debloat/internal/fileutil"
)

// Ledger is the set of pack names that finished a run.
type Ledger struct {
	names map[string]struct{}
}

// New builds a ledger from the provided names, trimming each and dropping blanks.
func New(names ...string) Ledger {
	l := Ledger{names: make(map[string]struct{}, len(names))}
	l.add(names)
	return l
}

// Load reads a ledger file with one pack name per line. A missing file is an
// empty ledger, not an error.
func Load(path string) (Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return Ledger{}, fmt.Errorf("read ledger: %w", err)
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		names = append(names, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Ledger{}, fmt.Errorf("scan ledger: %w", err)
	}
	return New(names...), nil
}

// Save persists the ledger atomically: names sorted ascending, one per line,
// no trailing newline after the last entry.
func Save(path string, l Ledger) error {
	content := strings.Join(l.Names(), "\n")
	if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Contains reports whether name was recorded.
func (l Ledger) Contains(name string) bool {
	_, ok := l.names[name]
	return ok
}

// Len returns the number of recorded names.
func (l Ledger) Len() int {
	return len(l.names)
}

// Names returns the recorded names sorted ascending.
func (l Ledger) Names() []string {
	out := make([]string, 0, len(l.names))
	for name := range l.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Union returns a new ledger holding the names of l plus names.
func (l Ledger) Union(names ...string) Ledger {
	out := Ledger{names: make(map[string]struct{}, len(l.names)+len(names))}
	for name := range l.names {
		out.names[name] = struct{}{}
	}
	out.add(names)
	return out
}

// Add records names in place.
func (l *Ledger) Add(names ...string) {
	if l.names == nil {
		l.names = make(map[string]struct{}, len(names))
	}
	l.add(names)
}

func (l *Ledger) add(names []string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		l.names[name] = struct{}{}
	}
}
