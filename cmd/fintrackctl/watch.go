package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"

	"github.com/google/subcommands"
)

type watchCmd struct {
	queue string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "print ledger events from the message broker" }
func (*watchCmd) Usage() string {
	return `fintrackctl watch [-queue <name>]

  Consumes ledger events until interrupted. Requires AMQP_URL.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.queue, "queue", "", "Queue to consume (defaults to AMQP_QUEUE).")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !cfg.AMQPEnabled() {
		fmt.Fprintln(os.Stderr, "AMQP_URL is not set")
		return subcommands.ExitFailure
	}
	queue := c.queue
	if queue == "" {
		queue = cfg.AMQPQueue
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, queue)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = client.Consume(ctx, func(_ context.Context, e *amqp.Event) error {
		fmt.Println(describeEvent(e))
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func describeEvent(e *amqp.Event) string {
	at := e.Timestamp.Local().Format(time.DateTime)
	switch e.Type {
	case amqp.EventTransactionAdded, amqp.EventTransactionDeleted:
		var tx core.Transaction
		if err := e.Decode(&tx); err == nil {
			return fmt.Sprintf("%s %s %s %s %s", at, e.Type, tx.Type, tx.Amount.StringFixed(2), tx.Description)
		}
	case amqp.EventNotification:
		var n core.Notification
		if err := e.Decode(&n); err == nil {
			return fmt.Sprintf("%s %s [%s] %s", at, e.Type, n.Kind, n.Message)
		}
	case amqp.EventRecurringTick:
		var s amqp.TickSummary
		if err := e.Decode(&s); err == nil {
			return fmt.Sprintf("%s %s generated=%d", at, e.Type, s.Generated)
		}
	}
	return fmt.Sprintf("%s %s %s", at, e.Type, string(e.Payload))
}
