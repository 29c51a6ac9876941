package cli

import (
	"flag"
	"io"
)

type cliOptions struct {
	configPath string
	format     string
	outPath    string
	noColor    bool
	watch      bool
	listRules  bool
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("astral", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = io.WriteString(stderr, "Usage: astral [flags] <dump.json|dir|->...\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ./astral.toml when present)")
	fs.StringVar(&opts.format, "format", "", "Output format: text, json or sarif (overrides output.format)")
	fs.StringVar(&opts.outPath, "out", "", "Write the report to this file instead of stdout")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable styled text output")
	fs.BoolVar(&opts.watch, "watch", false, "Re-analyze whenever a dump or the config file changes")
	fs.BoolVar(&opts.listRules, "list-rules", false, "List the enabled rules and exit")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
