// Package main provides the Vordr CLI entry point.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orneryd/vordr/pkg/config"
	"github.com/orneryd/vordr/pkg/cypher"
	"github.com/orneryd/vordr/pkg/logging"
	"github.com/orneryd/vordr/pkg/schema"
	"github.com/orneryd/vordr/pkg/store"
	"github.com/orneryd/vordr/pkg/vordr"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vordr",
		Short: "Vordr - Schema-aware review of generated Cypher",
		Long: `Vordr reviews Cypher produced by language models before a graph
database ever runs it.

Features:
  • Schema text rendering for generation prompts
  • Enhanced rendering with counts, ranges, and example values
  • Relationship direction correction against the schema
  • Rejection of queries no schema orientation can satisfy
  • Fenced code block extraction from raw model output
  • Named schema snapshots in a local store`,
	}

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Vordr v%s (%s)\n", version, commit)
		},
	})

	// Format command
	formatCmd := &cobra.Command{
		Use:   "format",
		Short: "Render schema text for a generation prompt",
		Long: `Render the schema as the text block a generation prompt embeds:
node properties, relationship properties, and the permitted
relationship patterns. --enhanced adds counts, value ranges, and
example values where the schema carries statistics.`,
		RunE: runFormat,
	}
	formatCmd.Flags().String("schema", "", "Schema file (JSON or YAML)")
	formatCmd.Flags().String("name", "", "Stored snapshot name")
	formatCmd.Flags().Bool("enhanced", false, "Statistics-rich layout")
	formatCmd.Flags().StringSlice("include", nil, "Keep only these labels and relationship types")
	formatCmd.Flags().StringSlice("exclude", nil, "Drop these labels and relationship types")
	formatCmd.Flags().String("data-dir", "", "Snapshot store directory (default $VORDR_DATA_DIR or ~/.vordr)")
	rootCmd.AddCommand(formatCmd)

	// Check command
	checkCmd := &cobra.Command{
		Use:   "check [query]",
		Short: "Correct relationship directions in a query, or reject it",
		Long: `Check parses every relationship pattern in the query, compares each
against the schema, and prints the corrected query on stdout. A query
that fits no orientation the schema allows is rejected with exit
status 1.

The query comes from the argument, --file, or stdin, in that order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	checkCmd.Flags().String("schema", "", "Schema file (JSON or YAML)")
	checkCmd.Flags().String("name", "", "Stored snapshot name")
	checkCmd.Flags().String("file", "", "Read the query from a file")
	checkCmd.Flags().Bool("extract", false, "Pull the query out of a fenced code block first")
	checkCmd.Flags().String("data-dir", "", "Snapshot store directory (default $VORDR_DATA_DIR or ~/.vordr)")
	rootCmd.AddCommand(checkCmd)

	// Extract command
	extractCmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract the first fenced code block from model output",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExtract,
	}
	extractCmd.Flags().String("file", "", "Read model output from a file")
	rootCmd.AddCommand(extractCmd)

	// Schema snapshot commands
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage stored schema snapshots",
	}
	schemaImportCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load a schema file and save it as a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchemaImport,
	}
	schemaImportCmd.Flags().String("name", "", "Snapshot name (default: file name without extension)")
	schemaImportCmd.Flags().String("data-dir", "", "Snapshot store directory (default $VORDR_DATA_DIR or ~/.vordr)")
	schemaCmd.AddCommand(schemaImportCmd)

	schemaListCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		RunE:  runSchemaList,
	}
	schemaListCmd.Flags().String("data-dir", "", "Snapshot store directory (default $VORDR_DATA_DIR or ~/.vordr)")
	schemaCmd.AddCommand(schemaListCmd)

	schemaShowCmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchemaShow,
	}
	schemaShowCmd.Flags().Bool("json", false, "Print the raw schema document as JSON")
	schemaShowCmd.Flags().String("data-dir", "", "Snapshot store directory (default $VORDR_DATA_DIR or ~/.vordr)")
	schemaCmd.AddCommand(schemaShowCmd)

	schemaRmCmd := &cobra.Command{
		Use:   "rm [name]",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchemaRm,
	}
	schemaRmCmd.Flags().String("data-dir", "", "Snapshot store directory (default $VORDR_DATA_DIR or ~/.vordr)")
	schemaCmd.AddCommand(schemaRmCmd)
	rootCmd.AddCommand(schemaCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runFormat(cmd *cobra.Command, args []string) error {
	model, err := loadModel(cmd)
	if err != nil {
		return err
	}
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	enhanced, _ := cmd.Flags().GetBool("enhanced")

	text, err := schema.Format(model, schema.FormatOptions{
		IncludeTypes: include,
		ExcludeTypes: exclude,
		Enhanced:     enhanced,
	})
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	model, err := loadModel(cmd)
	if err != nil {
		return err
	}
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if doExtract, _ := cmd.Flags().GetBool("extract"); doExtract {
		input = cypher.ExtractCypher(input)
	}
	input = strings.TrimSpace(input)

	logger, err := newLogger()
	if err != nil {
		return err
	}

	guard, err := vordr.New(model, vordr.WithLogger(logger))
	if err != nil {
		return err
	}

	corrected, ok := guard.Correct(input)
	if !ok {
		fmt.Fprintln(os.Stderr, "❌ Query rejected: no schema relationship allows it")
		os.Exit(1)
	}
	if corrected != input {
		fmt.Fprintln(os.Stderr, "✏️  Relationship directions corrected")
	}
	fmt.Println(corrected)
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimSpace(cypher.ExtractCypher(text)))
	return nil
}

func runSchemaImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	model, err := schema.LoadFile(path)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.PutSchema(name, model); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	fmt.Printf("💾 Saved snapshot %q (%d node labels, %d relationships)\n",
		name, len(model.NodeProps), len(model.Relationships))
	return nil
}

func runSchemaList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	snaps, err := s.ListSchemas()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No schema snapshots stored.")
		return nil
	}
	for _, snap := range snaps {
		labels, rels := 0, 0
		if snap.Schema != nil {
			labels = len(snap.Schema.NodeProps)
			rels = len(snap.Schema.Relationships)
		}
		fmt.Printf("%-24s %s   %d labels, %d relationships\n",
			snap.Name, snap.SavedAt.Format("2006-01-02 15:04"), labels, rels)
	}
	return nil
}

func runSchemaShow(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.GetSchema(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no snapshot named %q", args[0])
		}
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Schema)
	}
	text, err := schema.Format(snap.Schema, schema.FormatOptions{})
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func runSchemaRm(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteSchema(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no snapshot named %q", args[0])
		}
		return err
	}
	fmt.Printf("🗑️  Removed snapshot %q\n", args[0])
	return nil
}

// loadModel resolves the schema a command works against. --schema reads a
// file directly, --name loads a stored snapshot, and VORDR_SCHEMA names a
// fallback snapshot when neither flag is given.
func loadModel(cmd *cobra.Command) (*schema.Schema, error) {
	file, _ := cmd.Flags().GetString("schema")
	name, _ := cmd.Flags().GetString("name")
	if file != "" && name != "" {
		return nil, errors.New("pass --schema or --name, not both")
	}
	if file != "" {
		return schema.LoadFile(file)
	}
	if name == "" {
		name = config.LoadFromEnv().SchemaName
	}
	if name == "" {
		return nil, errors.New("no schema given: pass --schema FILE or --name SNAPSHOT")
	}

	s, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	snap, err := s.GetSchema(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no snapshot named %q", name)
		}
		return nil, err
	}
	return snap.Schema, nil
}

// readInput takes text from the first argument, --file, or stdin, in that
// order.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dir := dataDir(cmd)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s, err := store.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	return s, nil
}

func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	return config.LoadFromEnv().DataDir
}

func newLogger() (*zap.Logger, error) {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return logging.New(cfg.LogLevel, cfg.LogFormat)
}
