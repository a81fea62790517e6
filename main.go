package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

var gitCommitSHA = ""

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)

		select {
		case <-interrupt:
			fmt.Println()
			klog.Info("received interrupt signal")
			cancel()
		case <-ctx.Done():
		}

		signal.Stop(interrupt)
	}()

	app := &cli.App{
		Name:        "xdb",
		Version:     gitCommitSHA,
		Description: "Look up the geographic region an IP address belongs to against a read-only XDB index file.",
		Before: func(c *cli.Context) error {
			return nil
		},
		Flags: append([]cli.Flag{
			FlagVerbose,
			FlagVeryVerbose,
		}, NewKlogFlagSet()...),
		Action: nil,
		Commands: []*cli.Command{
			newCmd_Search(),
			newCmd_Verify(),
			newCmd_Stats(),
			newCmd_Version(),
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.RunContext(ctx, os.Args); err != nil {
		klog.Fatal(err)
	}
}
