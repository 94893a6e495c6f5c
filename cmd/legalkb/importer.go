package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/legalkb/pkg/legalkb/registry"
	"github.com/cognicore/legalkb/pkg/legalkb/source"
	"github.com/cognicore/legalkb/pkg/legalkb/source/sqlite"
)

// docFlags are shared by the commands that read one statute file.
type docFlags struct {
	code   string
	format string
	name   string
	law    string
}

func (f *docFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "code", "", "Code id the document belongs to (required)")
	cmd.Flags().StringVar(&f.format, "format", "", "Input format: json, text or html (default from the file extension)")
	cmd.Flags().StringVar(&f.name, "name", "", "Code name (default from the registry)")
	cmd.Flags().StringVar(&f.law, "law", "", "Law number (default from the registry)")
	_ = cmd.MarkFlagRequired("code")
}

// read decodes path and fills blank metadata from the registry.
func (f *docFlags) read(path string, reg *registry.Registry) (*source.Document, error) {
	format, err := f.resolveFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := source.Decode(format, file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	entry, _ := reg.Lookup(f.code)
	doc.Name = firstSet(f.name, doc.Name, entry.Name)
	doc.LawNumber = firstSet(f.law, doc.LawNumber, entry.LawNumber)
	return doc, nil
}

func (f *docFlags) resolveFormat(path string) (source.Format, error) {
	if f.format != "" {
		return source.ParseFormat(f.format)
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %s; pass --format", path)
	}
	return source.ParseFormat(ext)
}

func importCmd(a *app) *cobra.Command {
	var (
		doc    docFlags
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Store a statute document in the SQLite record source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			reg, err := registryFor(cfg.Registry)
			if err != nil {
				return err
			}
			d, err := doc.read(args[0], reg)
			if err != nil {
				return err
			}

			if dbPath == "" {
				dbPath = cfg.SQLitePath
			}
			if dbPath == "" {
				dbPath = filepath.Join(cfg.DataDir, "legalkb.db")
			}
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return err
			}

			store, err := sqlite.Open(cmd.Context(), dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			defer store.Close()

			if err := store.PutDocument(cmd.Context(), doc.code, d); err != nil {
				return fmt.Errorf("import %s: %w", doc.code, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records for %s into %s\n", len(d.Records), doc.code, dbPath)
			return nil
		},
	}

	doc.register(cmd)
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default from config)")

	return cmd
}

func extractCmd(a *app) *cobra.Command {
	var (
		doc    docFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Split statute text or HTML into a JSON code document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			reg, err := registryFor(cfg.Registry)
			if err != nil {
				return err
			}
			d, err := doc.read(args[0], reg)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = cfg.DataDir
			}
			path, err := source.NewJSONDir(outDir).WriteFile(doc.code, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d articles, saved to %s\n", len(d.Records), path)
			return nil
		},
	}

	doc.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default data_dir from config)")

	return cmd
}

func registryFor(entries []registry.Entry) (*registry.Registry, error) {
	if len(entries) == 0 {
		return registry.Default(), nil
	}
	return registry.New(entries)
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
