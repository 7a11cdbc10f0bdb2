// Package main provides the shaclgen binary entry point: it loads a SHACL
// shape document and emits a typed object model for the chosen target.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ontoforge/shaclgen"
	"github.com/ontoforge/shaclgen/loader"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shaclgen",
		Short:   "Compile a SHACL-like schema into a typed object model",
		Version: version,
	}
	cmd.AddCommand(generateCmd())
	cmd.AddCommand(targetsCmd())
	return cmd
}

// fileConfig is the YAML shape of --config files. Flags override it.
type fileConfig struct {
	Input      string `yaml:"input"`
	Context    string `yaml:"context"`
	ContextURL string `yaml:"contextURL"`
	Output     string `yaml:"output"`
	Package    string `yaml:"package"`
	Target     string `yaml:"target"`
}

func generateCmd() *cobra.Command {
	var (
		configPath string
		cfg        fileConfig
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate source code from a shape document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := loadConfig(configPath, &cfg, cmd); err != nil {
					return err
				}
			}
			if cfg.Input == "" {
				return fmt.Errorf("--input is required")
			}
			if cfg.Target == "" {
				cfg.Target = "golang"
			}
			return generate(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "f", "", "YAML config file; flags override its values")
	cmd.Flags().StringVarP(&cfg.Input, "input", "i", "", "shape document (JSON-LD)")
	cmd.Flags().StringVar(&cfg.Context, "context", "", "context document (JSON-LD)")
	cmd.Flags().StringVar(&cfg.ContextURL, "context-url", "", "context URL embedded in the generated code")
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "output file; stdout when omitted")
	cmd.Flags().StringVar(&cfg.Package, "package", "model", "generated package name")
	cmd.Flags().StringVar(&cfg.Target, "target", "golang", "output target")
	return cmd
}

// loadConfig fills cfg from the YAML file, keeping any value the user set
// explicitly on the command line.
func loadConfig(path string, cfg *fileConfig, cmd *cobra.Command) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fromFile fileConfig
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if !cmd.Flags().Changed("input") && fromFile.Input != "" {
		cfg.Input = fromFile.Input
	}
	if !cmd.Flags().Changed("context") && fromFile.Context != "" {
		cfg.Context = fromFile.Context
	}
	if !cmd.Flags().Changed("context-url") && fromFile.ContextURL != "" {
		cfg.ContextURL = fromFile.ContextURL
	}
	if !cmd.Flags().Changed("output") && fromFile.Output != "" {
		cfg.Output = fromFile.Output
	}
	if !cmd.Flags().Changed("package") && fromFile.Package != "" {
		cfg.Package = fromFile.Package
	}
	if !cmd.Flags().Changed("target") && fromFile.Target != "" {
		cfg.Target = fromFile.Target
	}
	return nil
}

func generate(cfg fileConfig) error {
	schema, err := loader.Load(loader.Input{
		ShapesPath:  cfg.Input,
		ContextPath: cfg.Context,
		ContextURL:  cfg.ContextURL,
	})
	if err != nil {
		return err
	}

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	opts := shaclgen.Options{Package: cfg.Package}
	if err := shaclgen.Generate(schema, cfg.Target, opts, out); err != nil {
		return err
	}
	if cfg.Output != "" {
		slog.Info("generated", "target", cfg.Target, "classes", len(schema.Classes), "output", cfg.Output)
	}
	return nil
}

func targetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the available output targets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(strings.Join(shaclgen.Targets(), "\n"))
		},
	}
}
