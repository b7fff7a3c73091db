// Root command for the recordctl CLI.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/records-api/internal/app"
	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/logger"
	"github.com/aanand-mishra/records-api/internal/store"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// cli carries the global flags and the managers opened for one invocation.
type cli struct {
	configPath string
	jsonOut    bool

	app *app.App
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:           "recordctl",
		Short:         "recordctl manages the product and student collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = os.Getenv("CONFIG_PATH")
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			log := logger.New(cfg.Env, cmd.ErrOrStderr())
			a, err := app.Open(cmd.Context(), cfg, store.WithLogger(log))
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to the configuration YAML file (default: $CONFIG_PATH, then defaults)")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "output as JSON")

	root.AddCommand(newProductCmd(c))
	root.AddCommand(newStudentCmd(c))
	return root, c
}

// execute runs root and then releases the managers, including when the
// command failed. cobra skips post-run hooks after a RunE error.
func (c *cli) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
