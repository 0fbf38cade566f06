// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package warm

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediakit/renderd/cli/util/bootstrap"
	"github.com/mediakit/renderd/server/config"
	"github.com/mediakit/renderd/server/rendition"
)

var Command = &cobra.Command{
	Use:   "warm",
	Short: "Pre-generate renditions into the object store",
	Long: `This command generates renditions ahead of traffic so first readers do
not pay the generation cost.

Usage examples:

1. By content id:

	renderd warm --content-id 123 --width 300

2. By raw base asset key:

	renderd warm --key articles/123.jpg --width 300 --width 640

`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if opts.ContentID == "" && opts.Key == "" {
			return errors.New("either --content-id or --key is required")
		}

		return runCommand(cmd)
	},
}

func runCommand(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	orchestrator, err := bootstrap.Orchestrator(cfg)
	if err != nil {
		return err
	}

	widths := opts.Widths
	if len(widths) == 0 {
		widths = []int{cfg.DefaultWidth}
	}

	for _, width := range widths {
		blob, err := orchestrator.FetchOrCreate(cmd.Context(), rendition.Request{
			ContentID: opts.ContentID,
			BaseKey:   opts.Key,
			Width:     width,
		})
		if err != nil {
			return fmt.Errorf("failed to warm width %d: %w", width, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "warmed %dpx (%d bytes)\n", width, len(blob.Data))
	}

	return nil
}
