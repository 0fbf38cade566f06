// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package warm

var opts = &options{}

type options struct {
	ContentID string
	Key       string
	Widths    []int
}

func init() {
	flags := Command.Flags()
	flags.StringVar(&opts.ContentID, "content-id", "",
		"Content identifier to warm. Resolved through the metadata lookup.",
	)
	flags.StringVar(&opts.Key, "key", "",
		"Raw base asset key to warm. Skips metadata resolution.",
	)
	flags.IntSliceVar(&opts.Widths, "width", nil,
		"Rendition width in pixels. Repeatable. Defaults to the configured default width.",
	)
}
