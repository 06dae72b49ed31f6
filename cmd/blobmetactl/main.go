// Command blobmetactl inspects and edits a superblob location catalog.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/superblob/catalog"
	"github.com/arloliu/superblob/format"
)

type globalFlags struct {
	dir         string
	compression string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "blobmetactl [command] (flags)",
		Short:         "superblob location catalog introspection tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(
		&flags.dir, "db", "", "catalog database directory (required)")
	rootCmd.PersistentFlags().StringVar(
		&flags.compression, "compression", "None", "value compression for a new catalog (None, Zstd, S2, LZ4)")
	rootCmd.PersistentFlags().BoolVarP(
		&flags.verbose, "verbose", "v", false, "log catalog and engine events to stderr")

	rootCmd.AddCommand(
		newRowsCmd(flags),
		newLookupCmd(flags),
		newStatsCmd(flags),
		newInsertCmd(flags),
	)

	return rootCmd
}

// openCatalog opens the catalog named by --db. Read-only opens never create
// the database.
func (f *globalFlags) openCatalog(readOnly bool) (*catalog.DB, error) {
	if f.dir == "" {
		return nil, fmt.Errorf("--db is required")
	}

	compression, ok := format.ParseCompressionType(f.compression)
	if !ok {
		return nil, fmt.Errorf("unknown compression %q", f.compression)
	}

	logger := slog.New(slog.DiscardHandler)
	if f.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	engineOpts := []catalog.PebbleOption{catalog.WithEngineLogger(logger)}
	if readOnly {
		engineOpts = append(engineOpts, catalog.WithReadOnly())
	}

	engine, err := catalog.NewPebbleEngine(f.dir, engineOpts...)
	if err != nil {
		return nil, err
	}

	db, err := catalog.Open(engine,
		catalog.WithLogger(logger),
		catalog.WithValueCompression(compression),
	)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}

	return db, nil
}

func main() {
	cobra.EnableCommandSorting = false

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "blobmetactl:", err)
		os.Exit(1)
	}
}
