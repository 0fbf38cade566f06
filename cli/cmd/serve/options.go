// Copyright Renderd Contributors
// SPDX-License-Identifier: Apache-2.0

package serve

var opts = &options{}

type options struct {
	ListenAddress string
}

func init() {
	flags := Command.Flags()
	flags.StringVar(&opts.ListenAddress, "listen", "",
		"Listen address. Overrides RENDERD_LISTEN_ADDRESS.",
	)
}
