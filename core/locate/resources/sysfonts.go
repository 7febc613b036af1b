package resources

import (
	"context"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font"
)

// SystemFonts resolves font names to fonts installed on the system, e.g.
// "DejaVuSans.ttf" or "dejavusans". Font search is performed by package
// go-findfont, which looks in the platform's font folders.
type SystemFonts struct{}

// Resolve finds a system font by name and reads it.
func (SystemFonts) Resolve(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fpath, err := findfont.Find(filepath.Base(name))
	if err != nil || fpath == "" {
		return nil, NotFound(name, FontAsset)
	}
	tracer().Debugf("%s is a system font at %s", name, fpath)
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot read system font %s", fpath)
	}
	return data, nil
}

func (SystemFonts) String() string {
	return "system-fonts"
}

// ListSystemFonts returns the normalized names of all fonts found on the
// system.
func ListSystemFonts() []string {
	var names []string
	for _, fpath := range findfont.List() {
		if KindOf(fpath) != FontAsset {
			continue
		}
		names = append(names, font.NormalizeFontname(fpath))
	}
	return names
}
