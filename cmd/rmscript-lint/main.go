// Command rmscript-lint compiles or verifies a single rmscript file from
// the command line.
package main

import (
	"fmt"
	"os"

	"github.com/reachy-mini/rmscript"
	"github.com/reachy-mini/rmscript/diag"
	"github.com/reachy-mini/rmscript/limits"
	"github.com/reachy-mini/rmscript/semantic"
	"github.com/spf13/cobra"
)

func main() {
	var limitsFile string
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "rmscript-lint",
		Short: "Compile and verify rmscript behavior scripts",
	}

	compileCmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a script and print its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(limitsFile)
			if err != nil {
				return err
			}
			return runCompile(args[0], opts, !noColor)
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a script for errors without emitting IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&limitsFile, "limits", "", "YAML file overriding physical-limit thresholds (used by compile only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable source snippet rendering in diagnostics")
	rootCmd.AddCommand(compileCmd, verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadOptions(limitsFile string) (rmscript.Options, error) {
	if limitsFile == "" {
		return rmscript.Options{}, nil
	}
	cfg, err := limits.LoadYAML(limitsFile)
	if err != nil {
		return rmscript.Options{}, fmt.Errorf("loading limits file: %w", err)
	}
	return rmscript.Options{Semantic: semantic.Options{Limits: cfg}}, nil
}

func runCompile(path string, opts rmscript.Options, snippets bool) error {
	result := rmscript.CompileFileWithOptions(path, opts)
	printDiagnostics(result.Errors, result.SourceCode, snippets)
	printDiagnostics(result.Warnings, result.SourceCode, snippets)

	if !result.Success {
		return fmt.Errorf("compilation failed: %d error(s)", len(result.Errors))
	}
	fmt.Printf("%s: %d IR entries, %d warning(s)\n", result.Name, len(result.IR), len(result.Warnings))
	return nil
}

func runVerify(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	ok, messages := rmscript.VerifyScript(string(data))
	for _, m := range messages {
		fmt.Println(m)
	}
	if !ok {
		return fmt.Errorf("verification failed")
	}
	return nil
}

func printDiagnostics(ds []diag.Diagnostic, source string, snippets bool) {
	for _, d := range ds {
		if snippets {
			fmt.Fprintln(os.Stderr, d.Render(source))
		} else {
			fmt.Fprintln(os.Stderr, d.Format())
		}
	}
}
