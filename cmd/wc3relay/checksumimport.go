//nolint:forbidigo // CLI output uses fmt.Print
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"

	"wc3relay/adminimport"
)

// secretHeader is the metadata key spec.md §6 names for the shared
// secret carried on the controller's admin RPCs.
const secretHeader = "x-flo-secret"

const httpImportTimeout = 30 * time.Second

var errMissingEndpoint = errors.New("checksum-import: -endpoint is required")

// httpImporter submits a checksum batch as a JSON POST carrying the
// shared secret header. The real controller endpoint is a gRPC RPC
// (spec §6); this is the narrowest concrete stand-in this repo can
// own without fabricating a gRPC service definition it has no
// schema for.
type httpImporter struct {
	endpoint string
	secret   string
	client   *http.Client
}

func (h httpImporter) ImportMapChecksums(ctx context.Context, items []adminimport.ChecksumItem) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode checksum batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build import request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.secret != "" {
		req.Header.Set(secretHeader, h.secret)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit checksum batch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("import_map_checksums: server returned %s", resp.Status)
	}
	return nil
}

func newChecksumImportCommand() *ffcli.Command {
	fs := flag.NewFlagSet("checksum-import", flag.ExitOnError)
	dir := fs.String("dir", ".", "Directory of per-map JSON checksum descriptors")
	endpoint := fs.String("endpoint", "", "Controller import_map_checksums endpoint")
	secret := fs.String("secret", "", "Shared admin secret (x-flo-secret)")

	return &ffcli.Command{
		Name:       "checksum-import",
		ShortUsage: "wc3relay checksum-import -endpoint <url> [-dir <path>] [-secret <token>]",
		ShortHelp:  "Import map checksum descriptors into the controller",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			if *endpoint == "" {
				return errMissingEndpoint
			}

			importer := httpImporter{
				endpoint: *endpoint,
				secret:   *secret,
				client:   &http.Client{Timeout: httpImportTimeout},
			}

			n, err := adminimport.Run(ctx, *dir, importer)
			if err != nil {
				return err
			}

			fmt.Printf("imported %d map checksum(s)\n", n)
			return nil
		},
	}
}
