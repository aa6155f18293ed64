// boardwatch tails the tubeworks production board from a terminal. It polls
// the server on a fixed interval and reprints the board whenever a fresh
// snapshot lands. Ctrl-C stops it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubeworks/internal/boardclient"
	"tubeworks/internal/storage"
)

func main() {
	addr := flag.String("addr", "http://localhost:4001", "tubeworks server base URL")
	interval := flag.Duration("interval", boardclient.DefaultInterval, "board refresh interval")
	user := flag.String("user", "", "admin username, only needed for admin endpoints")
	pass := flag.String("pass", "", "admin password")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := boardclient.New(boardclient.Config{
		BaseURL:  *addr,
		Username: *user,
		Password: *pass,
	})

	poller := boardclient.NewPoller(log, client, boardclient.PollerConfig{
		Interval:  *interval,
		OnRefresh: printBoard,
	})

	log.Info("watching board",
		slog.String("addr", *addr),
		slog.Duration("interval", *interval),
	)

	if err := poller.Run(ctx); err != nil {
		log.Error("poller stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func printBoard(snap *storage.BoardSnapshot) {
	fmt.Printf("\n=== board @ %s ===\n", snap.GeneratedAt.Format(time.TimeOnly))
	for _, col := range snap.Columns {
		fmt.Printf("%-18s %d\n", col.Label, len(col.Jobs))
		for _, job := range col.Jobs {
			marker := "  "
			if job.Overdue {
				marker = " !"
			}
			fmt.Printf("  %s%s %s (due %s)\n",
				marker, job.OrderNum, job.Customer, job.DueDate.Format("2006-01-02"))
		}
	}
}
