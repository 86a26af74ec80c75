package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"homecafe/config"
	"homecafe/order-svc/internal/domain"
	"homecafe/order-svc/internal/service"
	"homecafe/order-svc/internal/storage"

	"github.com/spf13/cobra"
)

var Version = "dev"

// openFunc builds the fulfillment service the commands run against.
type openFunc func(ctx context.Context) (service.FulfillmentServiceInterface, func(), error)

func main() {
	if err := newRootCmd(openFromConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openFromConfig(ctx context.Context) (service.FulfillmentServiceInterface, func(), error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	orders, closeStore, err := storage.OpenOrderStore(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	if settings.KafkaBroker == "" {
		return service.NewFulfillmentService(orders, nil, nil), closeStore, nil
	}

	outbound := config.NewKafkaWriter(settings, settings.OutboundTopic)
	events := config.NewKafkaWriter(settings, settings.OrderEventsTopic)
	fulfillment := service.NewFulfillmentService(orders, storage.NewKafkaMessenger(outbound), storage.NewKafkaEventPublisher(events))
	return fulfillment, func() {
		outbound.Close()
		events.Close()
		closeStore()
	}, nil
}

func newRootCmd(open openFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cafectl",
		Short:         "cafectl - staff tool for the home cafe order log",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(recentCmd(open))
	rootCmd.AddCommand(todayCmd(open))
	rootCmd.AddCommand(pendingCmd(open))
	rootCmd.AddCommand(readyCmd(open))
	return rootCmd
}

func withFulfillment(cmd *cobra.Command, open openFunc, run func(ctx context.Context, f service.FulfillmentServiceInterface, out io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return run(ctx, f, cmd.OutOrStdout())
}

func positiveLimit(cmd *cobra.Command) (int, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return 0, fmt.Errorf("--limit must be a positive integer, got %d", limit)
	}
	return limit, nil
}

func recentCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := positiveLimit(cmd)
			if err != nil {
				return err
			}
			return withFulfillment(cmd, open, func(ctx context.Context, f service.FulfillmentServiceInterface, out io.Writer) error {
				records, err := f.Recent(ctx, limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, service.RenderRecent(records))
				return nil
			})
		},
	}
	cmd.Flags().IntP("limit", "n", 10, "Maximum orders to list")
	return cmd
}

func todayCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the order count and sales for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			if date == "" {
				date = time.Now().Format(domain.DateLayout)
			} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}
			return withFulfillment(cmd, open, func(ctx context.Context, f service.FulfillmentServiceInterface, out io.Writer) error {
				summary, err := f.DailySummary(ctx, date)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, service.RenderDailySummary(summary))
				return nil
			})
		},
	}
	cmd.Flags().StringP("date", "d", "", "Day to summarise (YYYY-MM-DD, default today)")
	return cmd
}

func pendingCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List orders waiting to be made",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := positiveLimit(cmd)
			if err != nil {
				return err
			}
			return withFulfillment(cmd, open, func(ctx context.Context, f service.FulfillmentServiceInterface, out io.Writer) error {
				page, err := f.ListPending(ctx, limit)
				if err != nil {
					return err
				}
				text, _ := service.RenderPending(page)
				fmt.Fprintln(out, text)
				return nil
			})
		},
	}
	cmd.Flags().IntP("limit", "n", 10, "Maximum orders to list")
	return cmd
}

func readyCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "ready [order id]",
		Short: "Mark a pending order ready and notify the customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFulfillment(cmd, open, func(ctx context.Context, f service.FulfillmentServiceInterface, out io.Writer) error {
				res, err := f.MarkReady(ctx, args[0])
				if errors.Is(err, domain.ErrOrderNotFound) {
					return errors.New(service.RenderNotFound(args[0]))
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, service.RenderReady(res))
				return nil
			})
		},
	}
}
