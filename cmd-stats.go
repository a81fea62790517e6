package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/regionxdb/xdb/xdbheader"
	"github.com/urfave/cli/v2"
)

// newCmd_Stats reports the header fields and derived region sizes for a
// given XDB file.
func newCmd_Stats() *cli.Command {
	var dbPath string
	return &cli.Command{
		Name:        "stats",
		Usage:       "Print header fields and region sizes for an XDB file.",
		Description: "Print header fields and region sizes for an XDB file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the XDB file",
				Required:    true,
				Destination: &dbPath,
			},
		},
		Action: func(c *cli.Context) error {
			fi, err := os.Stat(dbPath)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			f, err := os.Open(dbPath)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			defer f.Close()

			buf := make([]byte, xdbheader.HeaderSize)
			if _, err := f.ReadAt(buf, 0); err != nil {
				return fmt.Errorf("stats: failed to read header: %w", err)
			}
			h, err := xdbheader.Load(buf)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			segmentBytes := h.EndIndexPtr - h.StartIndexPtr
			payloadBytes := fi.Size() - int64(h.EndIndexPtr)

			fmt.Printf("file:                %s\n", dbPath)
			fmt.Printf("file size:           %s\n", humanize.Bytes(uint64(fi.Size())))
			fmt.Printf("structure_version:   %d\n", h.StructureVersion)
			fmt.Printf("ip_version:          %d\n", h.IPVersion)
			fmt.Printf("runtime_ptr_bytes:   %d\n", h.RuntimePtrBytes)
			fmt.Printf("created_at:          %d\n", h.CreatedAt)
			fmt.Printf("header size:         %s\n", humanize.Bytes(uint64(xdbheader.HeaderSize)))
			fmt.Printf("vector index size:   %s\n", humanize.Bytes(uint64(xdbheader.VectorIndexSize)))
			fmt.Printf("segment index range: [%s, %s) = %s\n",
				humanize.Comma(int64(h.StartIndexPtr)), humanize.Comma(int64(h.EndIndexPtr)), humanize.Bytes(uint64(segmentBytes)))
			fmt.Printf("payload region size: %s\n", humanize.Bytes(uint64(payloadBytes)))
			return nil
		},
	}
}
