package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tripsit/tripsit-api/data"
	"github.com/tripsit/tripsit-api/internal/config"
)

var genOpt struct {
	example string
	out     string
	force   bool
}

func main() {
	root := &cobra.Command{
		Use:   "apptokens",
		Short: "Manage the API app-token table",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write an app-token table with fresh random tokens",
		Long: "Reads the example app table (the built-in one unless --example is set) " +
			"and writes a copy in which every app has a new random API token.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd)
		},
	}
	flags := generate.Flags()
	flags.StringVar(&genOpt.example, "example", "", "path to an example app table (default: built-in)")
	flags.StringVar(&genOpt.out, "out", "config.json", "where to write the generated table")
	flags.BoolVar(&genOpt.force, "force", false, "overwrite an existing output file")

	root.AddCommand(generate)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command) error {
	raw := data.ConfigExample
	if genOpt.example != "" {
		b, err := os.ReadFile(genOpt.example)
		if err != nil {
			return fmt.Errorf("read example: %w", err)
		}
		raw = b
	}

	var example config.AppsFile
	if err := json.Unmarshal(raw, &example); err != nil {
		return fmt.Errorf("parse example: %w", err)
	}
	if len(example.Apps) == 0 {
		return fmt.Errorf("example app table has no apps")
	}

	out, err := config.GenerateTokens(example)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	mode := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !genOpt.force {
		mode |= os.O_EXCL
	}
	f, err := os.OpenFile(genOpt.out, mode, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", genOpt.out, err)
	}
	if _, err := f.Write(append(body, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", genOpt.out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	cmd.Printf("Wrote %d app tokens to %s\n", len(out.Apps), genOpt.out)
	return nil
}
