package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"

	"pbc/blocks"
	"pbc/utils/debug"
)

// listBlocks prints support table: what every known block type carries
// natively, everything else is externalized.
func listBlocks(_ context.Context, cmd *cli.Command) error {
	if _, err := fmt.Fprint(os.Stdout, describeBlocks(cmd.Args().Get(0))); err != nil {
		return fmt.Errorf("unable to write block list: %w", err)
	}
	return nil
}

// describeBlocks renders block types containing filter.
func describeBlocks(filter string) string {
	tw := debug.NewTreeWriter()
	for _, typ := range blocks.Types() {
		if filter != "" && !strings.Contains(string(typ), filter) {
			continue
		}
		sup, _ := blocks.Lookup(typ)
		tw.Line(0, "%s (%s)", typ, sup.Path)
		if sup.Tag != "" {
			tw.KeyValue(1, "wrapper", ": ", strings.TrimSpace("<"+sup.Tag+"> "+sup.Class))
		}
		tw.KeyValue(1, "styles", ": ", joinOrNone(sup.Styles()))
		tw.KeyValue(1, "attributes", ": ", joinOrNone(sup.Attrs()))
	}
	return tw.String()
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ", ")
}
