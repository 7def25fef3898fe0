package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"hotable/internal/db"
	"hotable/internal/dialogue"
	"hotable/internal/domain"
)

func newChatCmd(c *cli) *cobra.Command {
	var showIntent bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in the terminal (in-memory availability)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stack, err := c.loadStack()
			if err != nil {
				return err
			}
			repo := db.NewMemoryStore(db.SeedRestaurants(stack.Profiles))
			defer repo.Close()
			return chatLoop(cmd, stack.Router(repo, c.logger), cmd.InOrStdin(), cmd.OutOrStdout(), showIntent)
		},
	}
	cmd.Flags().BoolVar(&showIntent, "show-intent", false, "print the classified intent after each reply")
	return cmd
}

func chatLoop(cmd *cobra.Command, router *dialogue.Router, in io.Reader, out io.Writer, showIntent bool) error {
	ctx := commandContext(cmd)
	state := domain.ConversationContext{}
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Hotable - napisz wiadomość (\"exit\" kończy rozmowę).")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		case "":
			continue
		}

		reply, next, err := router.Turn(ctx, state, line)
		if err != nil {
			return err
		}
		state = next
		fmt.Fprintln(out, reply.Text)
		if showIntent {
			fmt.Fprintf(out, "[%s %.3f %s]\n", reply.Intent, reply.Score, reply.Origin)
		}
	}
}
