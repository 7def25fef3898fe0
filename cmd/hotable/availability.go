package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"hotable/internal/mqtt"
)

func newAvailabilityCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Publish restaurant availability to the MQTT broker",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <restaurant> <tables>",
		Short: "Publish the current number of free tables for a restaurant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := strconv.Atoi(args[1])
			if err != nil || tables < 0 {
				return fmt.Errorf("tables must be a non-negative integer, got %q", args[1])
			}

			ctx, cancel := contextWithTimeout(cmd, 10*time.Second)
			defer cancel()

			hub := mqtt.NewHub(mqtt.HubConfig{
				BrokerURL:   c.cfg.MQTTBrokerURL,
				ClientID:    c.cfg.MQTTClientID,
				Username:    c.cfg.MQTTUsername,
				Password:    c.cfg.MQTTPassword,
				TopicPrefix: c.cfg.MQTTTopicPrefix,
			}, nil, c.logger)
			if err := hub.Start(ctx); err != nil {
				return fmt.Errorf("connect mqtt: %w", err)
			}
			if err := hub.PublishAvailability(ctx, args[0], tables); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s=%d to %s\n", args[0], tables, mqtt.TopicAvailability(c.cfg.MQTTTopicPrefix, args[0]))
			return nil
		},
	})
	return cmd
}
