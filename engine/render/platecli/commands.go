package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font"
	"github.com/npillmayer/nameplate/core/font/fontregistry"
	"github.com/npillmayer/nameplate/core/locate/resources"
	"github.com/npillmayer/nameplate/core/parameters"
	"github.com/npillmayer/nameplate/engine/export"
	"github.com/npillmayer/nameplate/engine/render"
	"github.com/pterm/pterm"
)

// App holds the environment of all commands.
type App struct {
	Resolver resources.Resolver
	Catalog  *resources.Catalog
	Policy   parameters.Policy
}

func (app *App) pipeline() *render.Pipeline {
	return render.NewPipeline(app.Resolver, fontregistry.GlobalRegistry(), app.Policy)
}

// --- render ----------------------------------------------------------------

func (app *App) renderCmd(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	drawing := fs.String("drawing", "", "Drawing asset")
	fontpath := fs.String("font", "", "Font asset")
	message := fs.String("message", "", "Text to set")
	size := fs.Float64("size", 20, "Font size in mm")
	kerning := fs.Float64("kerning", 0, "Extra gap between glyphs in mm")
	preview := fs.String("preview", "", "Output file for the preview document")
	out := fs.String("export", "plate.svg", "Output file for the export document")
	timeout := fs.Duration("timeout", 30*time.Second, "Time limit for fetching assets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	params := parameters.Render{
		DrawingPath: *drawing,
		FontPath:    *fontpath,
		Message:     *message,
		FontSize:    *size,
		Kerning:     *kerning,
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	res, err := app.pipeline().Render(ctx, params)
	if err != nil {
		return core.WrapError(err, core.ECONNECTION, "render did not complete")
	}
	reportResult(res)
	if *preview != "" {
		if err := writeFile(*preview, res.Scene.Bytes); err != nil {
			return err
		}
		pterm.Success.Printfln("preview written to %s", *preview)
	}
	if *out != "" {
		if _, err := writeExport(*out, res, app.Policy); err != nil {
			return err
		}
	}
	return nil
}

func reportResult(res *render.Result) {
	for _, a := range res.Advisories {
		if a.Omitted() {
			pterm.Warning.Printfln("%s left out: %s", a.Contribution, a)
		} else {
			pterm.Warning.Println(a.String())
		}
	}
	if l := res.Scene.Layout(); l != nil && len(l.Missing) > 0 {
		pterm.Warning.Printfln("no glyphs for %q", string(l.Missing))
	}
	pterm.Info.Printfln("scene #%d: drawing=%v text=%v", res.Generation,
		res.Scene.HasDrawing(), res.Scene.HasText())
}

func writeExport(path string, res *render.Result, policy parameters.Policy) (export.Stats, error) {
	doc := export.Export(res.Scene, policy)
	if err := writeFile(path, doc.Bytes); err != nil {
		return doc.Stats, err
	}
	pterm.Success.Printfln("export written to %s (%d rewrites)", path, doc.Stats.Changes())
	return doc.Stats, nil
}

func writeFile(path string, content func() ([]byte, error)) error {
	data, err := content()
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot serialize document")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot write %s", path)
	}
	return nil
}

// --- glyphs ----------------------------------------------------------------

func (app *App) glyphsCmd(args []string) error {
	fs := flag.NewFlagSet("glyphs", flag.ExitOnError)
	fontpath := fs.String("font", "", "Font asset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fontpath == "" && fs.NArg() > 0 {
		*fontpath = fs.Arg(0)
	}
	if *fontpath == "" {
		return showGlyphs(fontregistry.FallbackFont())
	}
	t, err := resources.ResolveGlyphTable(context.Background(), app.Resolver,
		fontregistry.GlobalRegistry(), *fontpath).Await(context.Background())
	if err != nil {
		return err
	}
	return showGlyphs(t)
}

func showGlyphs(t *font.Table) error {
	pterm.DefaultSection.Printfln("%s: %d glyphs", t.Name, t.Len())
	pterm.Info.Println(t.Metrics.String())
	data := pterm.TableData{{"code point", "glyph", "advance", "outline"}}
	t.Each(func(g font.Glyph) {
		outline := g.Outline
		if len(outline) > 40 {
			outline = outline[:37] + "..."
		}
		data = append(data, []string{
			fmt.Sprintf("%U", g.Rune),
			strconv.QuoteRune(g.Rune),
			strconv.FormatFloat(g.Advance, 'g', -1, 64),
			outline,
		})
	})
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// --- assets ----------------------------------------------------------------

func (app *App) assetsCmd(args []string) error {
	fs := flag.NewFlagSet("assets", flag.ExitOnError)
	system := fs.Bool("system", false, "List fonts installed on the system")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *system {
		for _, f := range resources.ListSystemFonts() {
			pterm.Println(f)
		}
		return nil
	}
	prefix := ""
	if fs.NArg() > 0 {
		prefix = fs.Arg(0)
	}
	return showAssets(app.Catalog, prefix)
}

func showAssets(c *resources.Catalog, prefix string) error {
	paths := c.Search(prefix)
	if len(paths) == 0 {
		return core.WrapError(errors.New("no match"), core.EMISSING, "no assets with prefix %q", prefix)
	}
	data := pterm.TableData{{"asset", "kind"}}
	for _, p := range paths {
		kind, _ := c.Lookup(p)
		data = append(data, []string{p, kind.String()})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
