/*
Command platecli composes name plates from the command line.

Usage:

	platecli [flags] render -drawing d.svg -font f.svg -message "TEXT" [-export out.svg]
	platecli [flags] glyphs -font f.svg
	platecli [flags] assets [prefix]
	platecli [flags] repl

Assets are looked up in a local directory (flag -assets), the packaged
sample assets, a remote server (flag -remote) and, with flag -sysfonts,
the fonts installed on the system, in this order.

Configuration is read from a NestedText file 'nameplate.nt' at the usual
configuration locations, or from a file given with flag -config.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/nameplate/core/locate/resources"
	"github.com/npillmayer/nameplate/core/parameters"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'nameplate.render'
func tracer() tracing.Trace {
	return tracing.Select("nameplate.render")
}

var traceKeys = []string{
	"nameplate.fonts",
	"nameplate.glyphs",
	"nameplate.svg",
	"nameplate.render",
	"nameplate.resources",
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	uselogrus := flag.Bool("logrus", false, "Trace with logrus instead of Go log")
	confpath := flag.String("config", "", "NestedText configuration file")
	assetdir := flag.String("assets", "", "Local asset directory")
	remote := flag.String("remote", "", "Base URL of remote assets")
	sysfonts := flag.Bool("sysfonts", false, "Look up fonts installed on the system")
	flag.Usage = usage
	flag.Parse()

	conf, err := setupConfig(*confpath, *tlevel, *uselogrus)
	if err != nil {
		core.UserError(err)
		os.Exit(2)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	app := &App{
		Policy: parameters.PolicyFromConfig(conf),
	}
	if app.Resolver, err = setupResolver(*assetdir, *remote, *sysfonts); err != nil {
		core.UserError(err)
		os.Exit(2)
	}
	if app.Catalog, err = setupCatalog(*assetdir); err != nil {
		core.UserError(err)
		os.Exit(2)
	}

	cmd, args := "repl", []string{}
	if flag.NArg() > 0 {
		cmd, args = flag.Arg(0), flag.Args()[1:]
	}
	switch cmd {
	case "render":
		err = app.renderCmd(args)
	case "glyphs":
		err = app.glyphsCmd(args)
	case "assets":
		err = app.assetsCmd(args)
	case "repl":
		err = app.replCmd(args)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		core.UserError(err)
		os.Exit(3)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage: %s [flags] render|glyphs|assets|repl [command flags]\n", os.Args[0])
	flag.PrintDefaults()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// setupConfig loads the application configuration and installs it as the
// global configuration. Trace settings from the command line win over
// configured ones.
func setupConfig(path string, level string, uselogrus bool) (*koanfadapter.KConf, error) {
	k := koanf.New(".")
	defaults := map[string]interface{}{}
	for key, v := range parameters.Defaults() {
		defaults[key] = v
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot load default configuration")
	}
	conf := koanfadapter.New(k, parameters.Defaults().GetString(parameters.KeyAppKey), []string{"nt"})
	gconf.Initialize(conf) // loads the user's configuration file, if any
	if path != "" {
		if err := k.Load(file.Provider(path), koanfadapter.Parser()); err != nil {
			return nil, core.WrapError(err, core.EINVALID, "cannot read configuration %s", path)
		}
	}
	adapter := "go"
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if uselogrus {
		tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
		adapter = "logrus"
	}
	conf.Set("tracing.adapter", adapter)
	for _, key := range traceKeys {
		conf.Set("trace."+key, level)
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "error configuring tracing")
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return conf, nil
}

func setupResolver(dir, remote string, sysfonts bool) (resources.Resolver, error) {
	var chain resources.Chain
	if dir != "" {
		chain = append(chain, resources.Dir(dir))
	}
	chain = append(chain, resources.Packaged())
	if remote != "" {
		r, err := resources.HTTP(remote)
		if err != nil {
			return nil, err
		}
		chain = append(chain, r)
	}
	if sysfonts {
		chain = append(chain, resources.SystemFonts{})
	}
	tracer().Debugf("asset resolvers: %v", chain)
	return chain, nil
}

func setupCatalog(dir string) (*resources.Catalog, error) {
	catalog, err := resources.Packaged().Catalog()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return catalog, nil
	}
	local, err := resources.Dir(dir).Catalog()
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read asset directory %s", dir)
	}
	for _, p := range local.Search("") {
		kind, _ := local.Lookup(p)
		catalog.Add(p, kind)
	}
	return catalog, nil
}

func traceLevels() string {
	var levels []string
	for _, key := range traceKeys {
		levels = append(levels, fmt.Sprintf("%s=%s", key, tracing.Select(key).GetTraceLevel()))
	}
	return strings.Join(levels, " ")
}
