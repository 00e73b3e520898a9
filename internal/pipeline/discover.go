package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"debloat/internal/banner"
	"debloat/internal/dispatch"
	"debloat/internal/ledger"
)

// PackStatus pairs a library entry with its state against the ledger.
type PackStatus struct {
	Name  string
	Path  string
	IsDir bool
	State PackState
}

// Survey lists every entry of the library root, marking those in the ledger
// as recorded and everything else as discovered.
func Survey(libraryDir string, l ledger.Ledger) ([]PackStatus, error) {
	entries, err := readLibrary(libraryDir)
	if err != nil {
		return nil, err
	}
	out := make([]PackStatus, 0, len(entries))
	for _, entry := range entries {
		state := StateDiscovered
		if l.Contains(entry.Name()) {
			state = StateRecorded
		}
		out = append(out, PackStatus{
			Name:  entry.Name(),
			Path:  filepath.Join(libraryDir, entry.Name()),
			IsDir: entry.IsDir(),
			State: state,
		})
	}
	return out, nil
}

func readLibrary(libraryDir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(libraryDir)
	if err != nil {
		return nil, fmt.Errorf("read library %s: %w", libraryDir, err)
	}
	return entries, nil
}

// newPacks returns the library entries not present in the ledger, by name.
func newPacks(libraryDir string, l ledger.Ledger) ([]string, error) {
	entries, err := readLibrary(libraryDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if l.Contains(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// collectFiles walks each pack and returns its non-directory entries in
// lexical walk order. Unreadable subtrees are skipped.
func collectFiles(libraryDir string, packs []string) []dispatch.File {
	var files []dispatch.File
	for _, pack := range packs {
		root := filepath.Join(libraryDir, pack)
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if path == root || d.IsDir() {
				return nil
			}
			files = append(files, dispatch.NewFile(path))
			return nil
		})
	}
	return files
}

// projectFiles rewrites a file set as it would look after moves are applied,
// keeping walk order.
func projectFiles(files []dispatch.File, moves []banner.Move) []dispatch.File {
	if len(moves) == 0 {
		return files
	}
	target := make(map[string]string, len(moves))
	for _, move := range moves {
		target[move.Source] = move.Target
	}
	out := make([]dispatch.File, 0, len(files))
	for _, f := range files {
		if dst, ok := target[f.Path]; ok {
			out = append(out, dispatch.NewFile(dst))
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return walkLess(out[i].Path, out[j].Path)
	})
	return out
}

// walkLess orders paths the way filepath.WalkDir visits them.
func walkLess(a, b string) bool {
	pa := strings.Split(filepath.ToSlash(a), "/")
	pb := strings.Split(filepath.ToSlash(b), "/")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			return pa[i] < pb[i]
		}
	}
	return len(pa) < len(pb)
}
