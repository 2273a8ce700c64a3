package dir

import (
	"io/fs"
	"path"
)

// walker visits every entry under a root in lexical depth first order
// without recursion. Directories are read lazily on descend so a failing
// subtree surfaces as a visit error instead of aborting the whole walk.
type walker struct {
	fsys    fs.FS
	cur     visit
	stack   []visit
	descend bool
}

type visit struct {
	path string
	info fs.DirEntry
	err  error
}

func newWalker(fsys fs.FS, root string) *walker {
	info, err := fs.Stat(fsys, root)
	return &walker{
		fsys:  fsys,
		stack: []visit{{root, infoDirEntry{info}, err}},
	}
}

func (w *walker) Next() bool {
	if w.descend && w.cur.err == nil && w.cur.info.IsDir() {
		dir, err := fs.ReadDir(w.fsys, w.cur.path)
		for i := len(dir) - 1; i >= 0; i-- {
			p := path.Join(w.cur.path, dir[i].Name())
			w.stack = append(w.stack, visit{p, dir[i], nil})
		}
		if err != nil {
			// Second visit, to report ReadDir error.
			w.cur.err = err
			w.stack = append(w.stack, w.cur)
		}
	}

	if len(w.stack) == 0 {
		w.descend = false
		return false
	}
	i := len(w.stack) - 1
	w.cur = w.stack[i]
	w.stack = w.stack[:i]
	w.descend = true
	return true
}

func (w *walker) Path() string {
	return w.cur.path
}

func (w *walker) Entry() fs.DirEntry {
	return w.cur.info
}

func (w *walker) Err() error {
	return w.cur.err
}

type infoDirEntry struct{ f fs.FileInfo }

func (e infoDirEntry) Name() string               { return e.f.Name() }
func (e infoDirEntry) IsDir() bool                { return e.f.IsDir() }
func (e infoDirEntry) Type() fs.FileMode          { return e.f.Mode().Type() }
func (e infoDirEntry) Info() (fs.FileInfo, error) { return e.f, nil }
