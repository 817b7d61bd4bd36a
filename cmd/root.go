package cmd

import (
	"os"

	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"

	"github.com/lumen-lang/lumenc/internal/compiler/config"
	"github.com/lumen-lang/lumenc/internal/compiler/driver"
	"github.com/lumen-lang/lumenc/internal/compiler/logging"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	output     string
	printAST   bool
	printIR    bool
	emitLLVM   bool
	logLevel   string
	logFile    string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "lumenc <source.lum>",
	Short: "Lumen compiler — native executables from .lum sources",
	Long: wordwrap.WrapString(
		"lumenc compiles a single Lumen source file to a native executable. "+
			"With --print-ast it dumps the parse tree and stops; with --print-ir it dumps "+
			"the intermediate representation and stops; otherwise it assembles and links "+
			"the result with the configured system linker. Project defaults are read from "+
			"compiler.toml in the working directory when present.", 80),
	Version:       Version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          compileRun,
}

func compileRun(cmd *cobra.Command, args []string) error {
	explicit := cmd.Flags().Changed("config")
	path := configPath
	if !explicit {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}

	// Flags win over the configuration file, which wins over defaults.
	// Load already folded the lower two tiers together.
	if !cmd.Flags().Changed("output") {
		output = cfg.Output
	}
	if !cmd.Flags().Changed("log-level") {
		logLevel = cfg.LogLevel
	}
	logging.SetLevel(logLevel)

	log := logging.New("lumenc")
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = logging.New("lumenc", f)
	}

	return driver.Run(args[0], driver.Options{
		Output:     output,
		PrintAST:   printAST,
		PrintIR:    printIR,
		EmitLLVM:   emitLLVM,
		Linker:     cfg.Linker,
		LinkerArgs: cfg.LinkerArgs,
		Log:        log,
	})
}

// Execute runs the root command, logging any pipeline error as a
// single ERROR line before reporting failure to main.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logging.New("lumenc").Error(err.Error())
		return err
	}
	return nil
}

func init() {
	rootCmd.Flags().StringVarP(&output, "output", "o", "a.out", "output path for the linked executable")
	rootCmd.Flags().BoolVar(&printAST, "print-ast", false, "print the parse tree and exit")
	rootCmd.Flags().BoolVar(&printIR, "print-ir", false, "print the intermediate representation and exit")
	rootCmd.Flags().BoolVar(&emitLLVM, "emit-llvm", false, "also write the IR module to <output>.ll")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "additionally write diagnostics to this file")
	rootCmd.Flags().StringVar(&configPath, "config", "", "project configuration file (default ./compiler.toml)")
	rootCmd.MarkFlagsMutuallyExclusive("print-ast", "print-ir")
}
