package main

import (
	"fmt"
	"os"

	"github.com/regionxdb/xdb/xdbheader"
	"github.com/urfave/cli/v2"
)

// newCmd_Verify validates an XDB file's header: a thin adapter over
// xdbheader.Load/Verify. Download and list verbs are not implemented here;
// they require network I/O or a path-discovery layer outside the core's
// scope.
func newCmd_Verify() *cli.Command {
	var dbPath string
	return &cli.Command{
		Name:        "verify",
		Usage:       "Validate an XDB file's header: structure version, ip_version, and pointer-width/file-size bounds.",
		Description: "Validate an XDB file's header: structure version, ip_version, and pointer-width/file-size bounds.",
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
				return fmt.Errorf("verify: %w", err)
			}
			f, err := os.Open(dbPath)
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			defer f.Close()

			buf := make([]byte, xdbheader.HeaderSize)
			if _, err := f.ReadAt(buf, 0); err != nil {
				return fmt.Errorf("verify: failed to read header: %w", err)
			}

			h, err := xdbheader.Load(buf)
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			if err := xdbheader.Verify(h, fi.Size()); err != nil {
				return fmt.Errorf("verify: %w", err)
			}

			fmt.Printf("%s: OK (structure_version=%d ip_version=%d runtime_ptr_bytes=%d file_size=%d)\n",
				dbPath, h.StructureVersion, h.IPVersion, h.RuntimePtrBytes, fi.Size())
			return nil
		},
	}
}
