package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hotable/internal/app"
	"hotable/internal/config"
	"hotable/internal/domain"
	"hotable/internal/nluclient"
)

// cli carries state shared by the subcommands. The corpus is loaded on
// first use so that remote-only invocations never read it.
type cli struct {
	serverURL string
	verbose   bool
	cfg       config.CLIConfig
	logger    *slog.Logger
	stack     *app.Stack
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "hotable",
		Short:         "Hotable restaurant assistant: intent classification, entities and chat",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv()
			cfg, err := config.LoadCLIConfig()
			if err != nil {
				return err
			}
			c.cfg = cfg
			if c.serverURL == "" {
				c.serverURL = cfg.ServerURL
			}
			level := slog.LevelWarn
			if c.verbose {
				level = slog.LevelInfo
			}
			c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.serverURL, "server", "", "hotable-server base URL; classify remotely instead of loading the corpus")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log every turn to stderr")

	root.AddCommand(
		newPredictCmd(c),
		newExtractCmd(c),
		newRespondCmd(c),
		newEvalCmd(c),
		newChatCmd(c),
		newAvailabilityCmd(c),
	)
	return root
}

func (c *cli) loadStack() (*app.Stack, error) {
	if c.stack != nil {
		return c.stack, nil
	}
	stack, err := app.LoadStack(c.cfg.NLU)
	if err != nil {
		return nil, err
	}
	c.stack = stack
	return stack, nil
}

func (c *cli) remote() *nluclient.Client {
	if c.serverURL == "" {
		return nil
	}
	return nluclient.NewClient(c.serverURL, 5*time.Second)
}

func newPredictCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <message>",
		Short: "Classify a message into an intent tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			var out domain.PredictResponse
			if client := c.remote(); client != nil {
				res, err := client.Predict(commandContext(cmd), message)
				if err != nil {
					return err
				}
				out = res
			} else {
				stack, err := c.loadStack()
				if err != nil {
					return err
				}
				out = stack.Predict(message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "intent=%s score=%.3f origin=%s unit=%s strategy=%s\n",
				out.Intent, out.Score, out.Origin, out.Unit, out.Strategy)
			return nil
		},
	}
}

func newExtractCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <message>",
		Short: "Extract the restaurant and cuisine mentioned in a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			var ents domain.Entities
			if client := c.remote(); client != nil {
				res, err := client.Extract(commandContext(cmd), message)
				if err != nil {
					return err
				}
				ents = res
			} else {
				stack, err := c.loadStack()
				if err != nil {
					return err
				}
				ents = stack.Engine.Extract(message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restaurant=%q cuisine=%q\n", ents.Restaurant, ents.Cuisine)
			return nil
		},
	}
}

func newRespondCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "respond <tag>",
		Short: "Print a random canned response for an intent tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if client := c.remote(); client != nil {
				res, err := client.Response(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				text = res
			} else {
				stack, err := c.loadStack()
				if err != nil {
					return err
				}
				text = stack.Engine.Response(args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(commandContext(cmd), d)
}
