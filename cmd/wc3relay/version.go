//nolint:forbidigo // CLI output uses fmt.Print
package main

import (
	"context"
	"fmt"

	"github.com/peterbourgon/ff/v3/ffcli"

	"wc3relay/version"
)

func newVersionCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "wc3relay version",
		ShortHelp:  "Print version information",
		Exec: func(_ context.Context, _ []string) error {
			v := version.Get()
			fmt.Printf("wc3relay %s\n", v.String())

			if v.GoVer != "" {
				fmt.Printf("  go: %s\n", v.GoVer)
			}

			return nil
		},
	}
}
