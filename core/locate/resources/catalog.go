package resources

import (
	"io/fs"
	"sort"
	"strings"

	"github.com/derekparker/trie"
)

// Catalog is an index of asset paths, supporting search by prefix.
// Catalogs are used to present available drawings and fonts to the user.
// A Catalog is not safe for concurrent modification.
type Catalog struct {
	paths *trie.Trie
	size  int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{paths: trie.New()}
}

// CatalogFromFS walks a file system and adds every font and drawing asset.
// Hidden files and folders are skipped.
func CatalogFromFS(fsys fs.FS) (*Catalog, error) {
	c := NewCatalog()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if kind := KindOf(p); kind != UnknownAsset {
			c.Add(p, kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	tracer().Debugf("catalog contains %d assets", c.Len())
	return c, nil
}

// Add puts an asset path into the catalog. Adding a path twice will
// overwrite its kind.
func (c *Catalog) Add(p string, kind Kind) {
	if _, ok := c.paths.Find(p); !ok {
		c.size++
	}
	c.paths.Add(p, kind)
}

// Lookup returns the kind of an asset, if the asset is cataloged.
func (c *Catalog) Lookup(p string) (Kind, bool) {
	node, ok := c.paths.Find(p)
	if !ok {
		return UnknownAsset, false
	}
	kind, _ := node.Meta().(Kind)
	return kind, true
}

// Len returns the number of cataloged assets.
func (c *Catalog) Len() int {
	return c.size
}

// Search returns all asset paths starting with prefix, sorted.
// An empty prefix lists the whole catalog.
func (c *Catalog) Search(prefix string) []string {
	var paths []string
	if prefix == "" {
		paths = c.paths.Keys()
	} else {
		paths = c.paths.PrefixSearch(prefix)
	}
	sort.Strings(paths)
	return paths
}

// SearchKind is like Search, but returns only assets of a given kind.
func (c *Catalog) SearchKind(prefix string, kind Kind) []string {
	var paths []string
	for _, p := range c.Search(prefix) {
		if k, _ := c.Lookup(p); k == kind {
			paths = append(paths, p)
		}
	}
	return paths
}
