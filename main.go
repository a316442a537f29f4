package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sicxe-toolchain/sicxe-asm/browser"
	"github.com/sicxe-toolchain/sicxe-asm/config"
	"github.com/sicxe-toolchain/sicxe-asm/sicxe"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		output      = flag.String("o", "", "Output file for the object program (default: stdout)")
		configPath  = flag.String("config", "", "Path to a config file (default: platform config directory)")
		xrefFlag    = flag.Bool("xref", false, "Print a cross-reference report after assembling")
		browseFlag  = flag.Bool("browse", false, "Open a terminal browser over the assembled sections instead of printing output")
	)
	flag.Usage = printUsage

	flag.Parse()

	if *showVersion {
		fmt.Printf("sicxe-asm %s (%s)\n", Version, Commit)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sicxe-asm: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		os.Exit(1)
	}

	sourcePath := args[0]
	data, err := os.ReadFile(sourcePath) // #nosec G304 -- user-supplied assembly source
	if err != nil {
		fmt.Fprintf(os.Stderr, "sicxe-asm: %v\n", err)
		os.Exit(1)
	}

	sections, err := sicxe.AssembleSections(sourcePath, string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *browseFlag {
		if err := browser.New(sections).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "sicxe-asm: browser error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := writeObjectProgram(sections, *output); err != nil {
		fmt.Fprintf(os.Stderr, "sicxe-asm: %v\n", err)
		os.Exit(1)
	}

	if *xrefFlag || cfg.Xref.Enabled {
		for _, s := range sections {
			fmt.Println(s.Xref.String())
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func writeObjectProgram(sections []sicxe.SectionResult, outPath string) error {
	w := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath) // #nosec G304 -- user-supplied output path
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	for _, s := range sections {
		if _, err := fmt.Fprint(w, s.Object); err != nil {
			return fmt.Errorf("failed to write object program: %w", err)
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: sicxe-asm [flags] <source-file>\n\n")
	flag.PrintDefaults()
}
