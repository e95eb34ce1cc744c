package cli

import (
	"fmt"
	"path/filepath"

	"github.com/nluyan/pkgpad/internal/branding"
	"github.com/nluyan/pkgpad/internal/config"
	"github.com/nluyan/pkgpad/internal/protocol"
	"github.com/nluyan/pkgpad/internal/registry"
	"github.com/spf13/cobra"
)

// app wires the components shared by the commands of one invocation.
type app struct {
	settings   config.Result
	client     *protocol.Client
	aggregator *registry.Aggregator
}

// newApp loads settings once and builds the registry stack on top of them.
// A settings failure is kept in the aggregator and surfaces on first use.
func newApp() *app {
	settings := config.LoadSettings(rootConfig)

	opts := []protocol.Option{
		protocol.WithUserAgent(fmt.Sprintf("%s/%s", branding.UserAgent(), buildVersion)),
		protocol.WithCacheDir(filepath.Join(config.Dir(), "cache")),
	}
	if s, err := settings.Get(); err == nil {
		opts = append(opts, protocol.WithTimeout(s.Timeout))
	}
	client := protocol.New(opts...)

	return &app{
		settings:   settings,
		client:     client,
		aggregator: registry.NewAggregator(settings, registry.NewEndpointCache(registry.Connect(client))),
	}
}

func printError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
}
