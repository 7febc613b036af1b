package main

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/font/fontregistry"
	"github.com/npillmayer/nameplate/core/locate/resources"
	"github.com/npillmayer/nameplate/core/parameters"
	"github.com/npillmayer/nameplate/engine/render"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object. Edits of the render parameters are
// debounced; results of renders are committed to the interpreter, which
// keeps the latest one for export.
type Intp struct {
	app      *App
	repl     *readline.Instance
	params   parameters.Render
	renderer *render.Renderer
	debounce *render.Debouncer
	mu       sync.Mutex
	latest   *render.Result
}

func (app *App) replCmd(args []string) error {
	intp := &Intp{
		app:    app,
		params: parameters.Render{FontSize: 20},
	}
	var err error
	intp.repl, err = readline.NewEx(&readline.Config{
		Prompt:          "plate > ",
		AutoComplete:    intp.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot start interactive mode")
	}
	defer intp.repl.Close()
	intp.renderer = render.NewRenderer(app.pipeline(), intp)
	intp.debounce = render.NewDebouncer(app.Policy.Debounce, func(p parameters.Render) {
		intp.renderer.Request(context.Background(), p)
	})
	pterm.Info.Println("Welcome to the name plate composer")
	pterm.Info.Println("Quit with <ctrl>D, type 'help' for a list of commands")
	intp.REPL()
	intp.debounce.Stop()
	intp.renderer.Wait()
	return nil
}

// Commit receives render results.
func (intp *Intp) Commit(res *render.Result) {
	intp.mu.Lock()
	intp.latest = res
	intp.mu.Unlock()
	reportResult(res)
	intp.repl.Refresh()
}

func (intp *Intp) latestResult() *render.Result {
	intp.mu.Lock()
	defer intp.mu.Unlock()
	return intp.latest
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(line string) (bool, error) {
	cmd, arg := line, ""
	if i := strings.IndexByte(line, ' '); i > 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	cmd = strings.ToLower(cmd)
	tracer().Debugf("command %q, argument %q", cmd, arg)
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		help()
	case "drawing":
		intp.params.DrawingPath = arg
		intp.debounce.Push(intp.params)
	case "font":
		intp.params.FontPath = arg
		intp.debounce.Push(intp.params)
	case "message", "text":
		intp.params.Message = arg
		intp.debounce.Push(intp.params)
	case "size":
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil || f <= 0 {
			return false, core.Error(core.EINVALID, "font size must be a positive number")
		}
		intp.params.FontSize = f
		intp.debounce.Push(intp.params)
	case "kerning":
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return false, core.Error(core.EINVALID, "kerning must be a number")
		}
		intp.params.Kerning = f
		intp.debounce.Push(intp.params)
	case "render":
		intp.debounce.Flush()
	case "show":
		pterm.Info.Printfln("drawing=%q font=%q message=%q size=%g kerning=%g",
			intp.params.DrawingPath, intp.params.FontPath, intp.params.Message,
			intp.params.FontSize, intp.params.Kerning)
		pterm.Info.Printfln("latest request #%d, committed #%d",
			intp.renderer.Latest(), intp.renderer.Committed())
	case "glyphs":
		return false, intp.app.glyphsCmd([]string{"-font", intp.params.FontPath})
	case "assets":
		return false, showAssets(intp.app.Catalog, arg)
	case "fonts":
		reg := fontregistry.GlobalRegistry()
		reg.LogFontList()
		for _, key := range reg.Keys() {
			pterm.Println(key)
		}
	case "preview", "export":
		res := intp.latestResult()
		if res == nil {
			return false, core.Error(core.EMISSING, "nothing rendered yet")
		}
		if arg == "" {
			arg = "plate.svg"
		}
		if cmd == "preview" {
			if err := writeFile(arg, res.Scene.Bytes); err != nil {
				return false, err
			}
			pterm.Success.Printfln("preview written to %s", arg)
			return false, nil
		}
		_, err := writeExport(arg, res, intp.app.Policy)
		return false, err
	case "trace":
		pterm.Info.Println(traceLevels())
	default:
		return false, core.Error(core.EINVALID, "unknown command %q, try 'help'", cmd)
	}
	return false, nil
}

func (intp *Intp) completer() *readline.PrefixCompleter {
	assets := func(kind resources.Kind) func(string) []string {
		return func(string) []string {
			return intp.app.Catalog.SearchKind("", kind)
		}
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("drawing", readline.PcItemDynamic(assets(resources.DrawingAsset))),
		readline.PcItem("font", readline.PcItemDynamic(assets(resources.FontAsset))),
		readline.PcItem("message"),
		readline.PcItem("size"),
		readline.PcItem("kerning"),
		readline.PcItem("render"),
		readline.PcItem("show"),
		readline.PcItem("glyphs"),
		readline.PcItem("assets"),
		readline.PcItem("fonts"),
		readline.PcItem("preview"),
		readline.PcItem("export"),
		readline.PcItem("trace"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func help() {
	pterm.DefaultSection.Println("Commands")
	data := [][]string{
		{"drawing <path>", "select a drawing, empty for none"},
		{"font <path>", "select a font, empty for none"},
		{"message <text>", "set the text of the plate"},
		{"size <mm>", "set the font size"},
		{"kerning <mm>", "set the extra gap between glyphs"},
		{"render", "render now instead of waiting for a pause"},
		{"show", "show the current parameters"},
		{"glyphs", "list the glyphs of the selected font, or of the fallback font"},
		{"assets [prefix]", "list available assets"},
		{"fonts", "list the fonts loaded so far"},
		{"preview [file]", "write the latest preview document"},
		{"export [file]", "write the latest export document"},
		{"trace", "show trace levels"},
		{"quit", "leave"},
	}
	pterm.DefaultTable.WithData(data).Render()
}
