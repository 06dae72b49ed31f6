package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arloliu/superblob/catalog"
	"github.com/arloliu/superblob/section"
)

func newRowsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rows",
		Short: "list every catalog row in lookup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := flags.openCatalog(true)
			if err != nil {
				return err
			}
			defer db.Close()

			tbl := newTable(cmd.OutOrStdout(), "IDFrom", "IDTo", "Seq", "SuperLoc", "SuperEnd", "Blobs")
			err = db.Scan(func(row catalog.Row, c *section.BlobMetaContainer) error {
				tbl.Append([]string{
					fmt.Sprintf("%d", row.IDFrom),
					fmt.Sprintf("%d", row.IDTo),
					fmt.Sprintf("%d", row.Seq),
					formatChunks(c.GetSuperLoc()),
					formatEnd(c.GetSuperLoc()),
					fmt.Sprintf("%d", c.GetBlobMap().Len()),
				})

				return nil
			})
			if err != nil {
				return err
			}
			tbl.Render()

			return nil
		},
	}
}

func newLookupCmd(flags *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "lookup <blob-id>",
		Short: "show where a blob is stored",
		Long: `Shows the container FetchMeta resolves for the blob and the blob's
chunks inside it. With --all every row covering the id is listed; the first
one is the row lookups use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid blob id %q: %w", args[0], err)
			}
			blobID := uint32(id)

			db, err := flags.openCatalog(true)
			if err != nil {
				return err
			}
			defer db.Close()

			var records []catalog.Record
			if all {
				records, err = db.FetchRows(blobID)
				if err == nil && len(records) == 0 {
					err = fmt.Errorf("no row covers blob id %d", blobID)
				}
			} else {
				var c *section.BlobMetaContainer
				c, err = db.FetchMeta(blobID)
				records = []catalog.Record{{Container: c}}
			}
			if err != nil {
				return err
			}

			tbl := newTable(cmd.OutOrStdout(), "Row", "SuperLoc", "BlobChunks", "BlobSize")
			for i, rec := range records {
				rowName := "first match"
				if all {
					rowName = rec.Row.String()
				}

				chunks, size := "-", "-"
				if cs, err := rec.Container.Locate(blobID); err == nil {
					chunks = formatChunks(cs)
					size = fmt.Sprintf("%d", section.BlobLoc{BlobID: blobID, Chunks: cs}.TotalSize())
				} else if i == 0 {
					chunks = "not in container"
				}

				tbl.Append([]string{rowName, formatChunks(rec.Container.GetSuperLoc()), chunks, size})
			}
			tbl.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every row covering the blob id")

	return cmd
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "summarize the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := flags.openCatalog(true)
			if err != nil {
				return err
			}
			defer db.Close()

			st, err := db.Stats()
			if err != nil {
				return err
			}

			span := "-"
			if st.Rows > 0 {
				span = fmt.Sprintf("[%d, %d]", st.MinID, st.MaxID)
			}

			tbl := newTable(cmd.OutOrStdout(), "Rows", "IDSpan", "NextSeq", "Compression")
			tbl.Append([]string{
				fmt.Sprintf("%d", st.Rows),
				span,
				fmt.Sprintf("%d", st.NextSeq),
				st.Compression.String(),
			})
			tbl.Render()

			return nil
		},
	}
}

func newInsertCmd(flags *globalFlags) *cobra.Command {
	var (
		superOffset uint64
		superSize   uint64
		blobs       []string
	)

	cmd := &cobra.Command{
		Use:   "insert --super-offset N --super-size N --blob id:offset:size...",
		Short: "append a container row to the catalog",
		Long: `Appends one row for a container stored contiguously at --super-offset.
Each --blob is id:offset:size, with offset relative to the container body.
A fragmented blob repeats its id once per chunk, in chunk order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := parseContainer(superOffset, superSize, blobs)
			if err != nil {
				return err
			}

			db, err := flags.openCatalog(false)
			if err != nil {
				return err
			}
			defer db.Close()

			row, err := db.InsertRange(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted row %s\n", row)

			return nil
		},
	}

	cmd.Flags().Uint64Var(&superOffset, "super-offset", 0, "container offset in the archival file")
	cmd.Flags().Uint64Var(&superSize, "super-size", 0, "container size in the archival file")
	cmd.Flags().StringArrayVar(&blobs, "blob", nil, "blob chunk as id:offset:size (repeatable)")

	return cmd
}

func parseContainer(superOffset, superSize uint64, blobs []string) (*section.BlobMetaContainer, error) {
	if superSize == 0 {
		return nil, fmt.Errorf("--super-size must be positive")
	}

	var order []uint32
	chunks := make(map[uint32][]section.ChunkLocation)
	for _, arg := range blobs {
		parts := strings.Split(arg, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --blob %q: want id:offset:size", arg)
		}

		id, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid --blob %q: %w", arg, err)
		}
		offset, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --blob %q: %w", arg, err)
		}
		size, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --blob %q: %w", arg, err)
		}

		blobID := uint32(id)
		if _, ok := chunks[blobID]; !ok {
			order = append(order, blobID)
		}
		chunks[blobID] = append(chunks[blobID], section.ChunkLocation{Offset: offset, Size: size})
	}

	c := section.NewBlobMetaContainer()
	c.SetLoc(superOffset, superSize)
	for _, id := range order {
		if err := c.GetBlobMap().AddChunks(id, chunks[id]...); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(header)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetAutoWrapText(false)

	return tbl
}

// formatEnd returns the file offset one past the furthest super chunk.
func formatEnd(chunks []section.ChunkLocation) string {
	if len(chunks) == 0 {
		return "-"
	}

	var end uint64
	for _, c := range chunks {
		end = max(end, c.End())
	}

	return fmt.Sprintf("%d", end)
}

func formatChunks(chunks []section.ChunkLocation) string {
	if len(chunks) == 0 {
		return "-"
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.String()
	}

	return strings.Join(parts, " ")
}
