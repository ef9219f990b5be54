package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/vxhub/vxhub-cli/internal/api"
	"github.com/vxhub/vxhub-cli/internal/outfmt"
	"github.com/vxhub/vxhub-cli/internal/ticketstream"
)

// bulkFetchLimit caps concurrent message fetches in `tickets messages --all`.
const bulkFetchLimit = 4

func newTicketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"tk", "support"},
		Short:   "Manage support tickets",
	}

	cmd.AddCommand(newTicketsListCmd())
	cmd.AddCommand(newTicketsCreateCmd())
	cmd.AddCommand(newTicketsMessagesCmd())
	cmd.AddCommand(newTicketsSendCmd())
	cmd.AddCommand(newTicketsUnseenCmd())
	cmd.AddCommand(newTicketsWatchCmd())

	return cmd
}

func newTicketsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List this device's support tickets",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			list, err := client.Tickets().List(cmd.Context())
			if err != nil {
				return err
			}

			f := outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if outfmt.IsJSON(cmd.Context()) {
				return f.Output(list.Tickets)
			}
			if len(list.Tickets) == 0 {
				f.Empty("No tickets")
				return nil
			}
			f.StartTable([]string{"ID", "CATEGORY", "STATUS", "UNSEEN", "LAST MESSAGE"})
			for _, t := range list.Tickets {
				unseen := ""
				if t.Unseen {
					unseen = "*"
				}
				f.Row(strconv.Itoa(int(t.ID)), t.Category, t.Status, unseen, truncate(t.LastMessage, 60))
			}
			return f.EndTable()
		}),
	}
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func newTicketsCreateCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "create MESSAGE...",
		Short: "Open a new support ticket",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			message, err := requireText(args, "ticket message")
			if err != nil {
				return err
			}
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Tickets().Create(cmd.Context(), category, message)
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			if result.Ticket != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created ticket %d\n", int(result.Ticket.ID))
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Ticket created: %s\n", result.Status)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&category, "category", "general", "Ticket category")

	return cmd
}

// ticketThread pairs a ticket ID with its fetched messages for bulk output.
type ticketThread struct {
	TicketID int                 `json:"ticket_id"`
	Messages []api.TicketMessage `json:"messages"`
}

func newTicketsMessagesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "messages [TICKET_ID]",
		Short: "Show the messages on a ticket",
		Long:  "Show the conversation on one ticket, or on every ticket with --all (messages are fetched concurrently).",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("provide either a TICKET_ID or --all")
			}
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}

			if !all {
				thread, err := client.Tickets().Messages(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return renderMessages(cmd, thread.Messages)
			}

			list, err := client.Tickets().List(cmd.Context())
			if err != nil {
				return err
			}
			threads, err := fetchAllThreads(cmd.Context(), client, list.Tickets)
			if err != nil {
				return err
			}

			f := outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if outfmt.IsJSON(cmd.Context()) {
				return f.Output(threads)
			}
			out := cmd.OutOrStdout()
			for _, th := range threads {
				_, _ = fmt.Fprintf(out, "--- ticket %d ---\n", th.TicketID)
				for _, m := range th.Messages {
					_, _ = fmt.Fprintf(out, "%s %s\n", messagePrefix(m), m.Message)
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&all, "all", false, "Fetch messages for every ticket")

	return cmd
}

// fetchAllThreads fetches message threads for all tickets with bounded
// concurrency. Order of the result is by ticket ID regardless of completion
// order.
func fetchAllThreads(ctx context.Context, client *api.Client, tickets []api.Ticket) ([]ticketThread, error) {
	sem := semaphore.NewWeighted(bulkFetchLimit)
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	threads := make([]ticketThread, 0, len(tickets))

	for _, t := range tickets {
		id := int(t.ID)
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			thread, err := client.Tickets().Messages(ctx, strconv.Itoa(id))
			if err != nil {
				return fmt.Errorf("ticket %d: %w", id, err)
			}
			mu.Lock()
			threads = append(threads, ticketThread{TicketID: id, Messages: thread.Messages})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(threads, func(i, j int) bool { return threads[i].TicketID < threads[j].TicketID })
	return threads, nil
}

func renderMessages(cmd *cobra.Command, messages []api.TicketMessage) error {
	f := outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if outfmt.IsJSON(cmd.Context()) {
		return f.Output(messages)
	}
	if len(messages) == 0 {
		f.Empty("No messages")
		return nil
	}
	out := cmd.OutOrStdout()
	for _, m := range messages {
		_, _ = fmt.Fprintf(out, "%s %s\n", messagePrefix(m), m.Message)
	}
	return nil
}

func messagePrefix(m api.TicketMessage) string {
	who := "hub"
	if m.FromDevice {
		who = "you"
	}
	if m.CreatedAt > 0 {
		return fmt.Sprintf("[%s %s]", time.Unix(m.CreatedAt, 0).UTC().Format("2006-01-02 15:04"), who)
	}
	return fmt.Sprintf("[%s]", who)
}

func newTicketsSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send TICKET_ID MESSAGE...",
		Short: "Send a message on a ticket",
		Args:  cobra.MinimumNArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			message, err := requireText(args[1:], "message")
			if err != nil {
				return err
			}
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Tickets().Send(cmd.Context(), args[0], message)
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Message sent: %s\n", result.Status)
			return nil
		}),
	}
}

func newTicketsUnseenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unseen",
		Short: "Check for unseen support replies",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			status, err := client.Tickets().UnseenStatus(cmd.Context())
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(status)
			}
			if status.Unseen {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unseen replies: %d\n", status.Count)
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No unseen replies")
			}
			return nil
		}),
	}
}

func newTicketsWatchCmd() *cobra.Command {
	var pingTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "watch TICKET_ID",
		Short: "Stream new messages on a ticket until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			_, account, err := newClientFactory().hub()
			if err != nil {
				return err
			}

			streamURL := websocketURL(account.BaseURL) + "/support/stream"
			stream, err := ticketstream.Connect(cmd.Context(), streamURL)
			if err != nil {
				return err
			}
			defer func() { _ = stream.Close() }()

			err = stream.Subscribe(cmd.Context(), ticketstream.TicketChannel{
				TicketID: args[0],
				HubID:    account.HubID,
				DeviceID: account.DeviceID,
			})
			if err != nil {
				return err
			}

			stream.StartHeartbeat(cmd.Context(), 30*time.Second, func(err error) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "heartbeat: %v\n", err)
			})

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Watching ticket %s (ctrl-c to stop)\n", args[0])
			for ev := range stream.ListenWithTimeout(cmd.Context(), pingTimeout) {
				if ev.Err != nil {
					return ev.Err
				}
				var msg struct {
					Event string            `json:"event"`
					Data  api.TicketMessage `json:"data"`
				}
				if err := json.Unmarshal(ev.Data, &msg); err != nil {
					continue
				}
				if msg.Event != "ticket.message" {
					continue
				}
				if outfmt.IsJSON(cmd.Context()) {
					_ = outfmt.WriteJSONMaybeCompact(out, msg.Data, true)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", messagePrefix(msg.Data), msg.Data.Message)
			}
			return nil
		}),
	}

	cmd.Flags().DurationVar(&pingTimeout, "ping-timeout", ticketstream.DefaultPingTimeout, "Treat the stream as dead after this long without frames")

	return cmd
}

func websocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
