// Package fixture materializes scenario directory trees on
// disk. A Builder accumulates files, symlinks and txtar
// archives, then Build wipes the root and writes everything
// fresh, so every run starts from a known state. The backing
// filesystem is an afero.Fs: the real OS filesystem by
// default, an in-memory one in tests.
package fixture

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/tools/txtar"
)

type fileEntry struct {
	path string
	body []byte
}

type linkEntry struct {
	target string
	link   string
}

// Builder accumulates the contents of a fixture tree. Entries
// are written in declaration order, so a later File may
// overwrite an earlier one at the same path.
type Builder struct {
	fs    afero.Fs
	root  string
	files []fileEntry
	links []linkEntry
}

// New returns a Builder rooted at the given directory on the
// OS filesystem.
func New(root string) *Builder {
	return &Builder{fs: afero.NewOsFs(), root: root}
}

// WithFs replaces the backing filesystem.
func (b *Builder) WithFs(fs afero.Fs) *Builder {
	b.fs = fs
	return b
}

// At re-roots the builder. Declared entries are kept; only the
// directory they materialize under changes.
func (b *Builder) At(root string) *Builder {
	b.root = root
	return b
}

// File declares a file relative to the root with the given
// body. Parent directories are created on Build.
func (b *Builder) File(path, body string) *Builder {
	b.files = append(b.files, fileEntry{path: path, body: []byte(body)})
	return b
}

// Symlink declares a symbolic link at link pointing to target,
// both relative to the root. Creation fails on filesystems
// that cannot represent symlinks.
func (b *Builder) Symlink(target, link string) *Builder {
	b.links = append(b.links, linkEntry{target: target, link: link})
	return b
}

// Txtar declares every file of a txtar archive. The archive
// comment is ignored.
func (b *Builder) Txtar(blob string) *Builder {
	archive := txtar.Parse([]byte(blob))
	for _, f := range archive.Files {
		b.files = append(b.files, fileEntry{path: f.Name, body: f.Data})
	}
	return b
}

// Build removes any previous tree at the root and writes all
// declared entries. It returns the materialized Tree.
func (b *Builder) Build() (*Tree, error) {
	if err := b.fs.RemoveAll(b.root); err != nil {
		return nil, fmt.Errorf("clean fixture root %s: %w", b.root, err)
	}
	if err := b.fs.MkdirAll(b.root, 0o755); err != nil {
		return nil, fmt.Errorf("create fixture root %s: %w", b.root, err)
	}
	tree := &Tree{fs: b.fs, root: b.root}
	for _, f := range b.files {
		if err := tree.write(f.path, f.body); err != nil {
			return nil, err
		}
	}
	for _, l := range b.links {
		if err := tree.symlink(l.target, l.link); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// Tree is a materialized fixture rooted at Root. It stays
// usable after Build for inspection and incremental edits.
type Tree struct {
	fs   afero.Fs
	root string
}

// Root returns the absolute root directory of the tree.
func (t *Tree) Root() string {
	return t.root
}

// Path joins the given elements under the root.
func (t *Tree) Path(elem ...string) string {
	return filepath.Join(append([]string{t.root}, elem...)...)
}

// ChangeFile rewrites a file under the root, creating it and
// its parents if needed. The rewrite bumps the modification
// time even when the body is unchanged.
func (t *Tree) ChangeFile(path, body string) error {
	return t.write(path, []byte(body))
}

// ReadFile returns the contents of a file under the root.
func (t *Tree) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(t.fs, t.Path(path))
	if err != nil {
		return "", fmt.Errorf("read fixture file %s: %w", path, err)
	}
	return string(data), nil
}

// Exists reports whether a path exists under the root.
func (t *Tree) Exists(path string) bool {
	ok, err := afero.Exists(t.fs, t.Path(path))
	return err == nil && ok
}

func (t *Tree) write(path string, body []byte) error {
	full := t.Path(path)
	if err := t.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create fixture dir for %s: %w", path, err)
	}
	if err := afero.WriteFile(t.fs, full, body, 0o644); err != nil {
		return fmt.Errorf("write fixture file %s: %w", path, err)
	}
	return nil
}

func (t *Tree) symlink(target, link string) error {
	linker, ok := t.fs.(afero.Linker)
	if !ok {
		return fmt.Errorf("create symlink %s: %w", link, afero.ErrNoSymlink)
	}
	full := t.Path(link)
	if err := t.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create fixture dir for %s: %w", link, err)
	}
	if err := linker.SymlinkIfPossible(t.Path(target), full); err != nil {
		return fmt.Errorf("create symlink %s: %w", link, err)
	}
	return nil
}
