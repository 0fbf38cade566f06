// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mediakit/renderd/cli/cmd/serve"
	"github.com/mediakit/renderd/cli/cmd/warm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "renderd",
		Short: "On-demand media derivative cache",
	}

	rootCmd.AddCommand(serve.Command)
	rootCmd.AddCommand(warm.Command)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
