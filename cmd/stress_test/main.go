package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/stock-assistant/internal/adapter/handler/rpc"
)

var (
	addr  string
	extra int
)

var rootCmd = &cobra.Command{
	Use:   "stress_test",
	Short: "Fire concurrent t-shirt sales at a running server",
	Long: `stress_test reads the current t-shirt count, then sends that many sales
plus --extra more at once. Exactly the stocked amount must succeed and the
rest must be rejected for insufficient stock.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "localhost:50051", "gRPC address of a running server")
	rootCmd.Flags().IntVar(&extra, "extra", 30, "Requests beyond the current t-shirt count")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, time.Minute)
	defer cancel()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()
	client := rpc.NewInventoryAssistantClient(conn)

	before, err := client.Inventory(ctx, &rpc.InventoryRequest{})
	if err != nil {
		return fmt.Errorf("failed to read inventory: %w", err)
	}
	initialStock := before.Counts["shirts"]
	totalRequests := initialStock + extra

	// Counters
	var successCount atomic.Int32
	var rejectedCount atomic.Int32
	var errorCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			reply, err := client.Ask(ctx, &rpc.AskRequest{
				RequestID: fmt.Sprintf("stress-%d", n),
				Text:      "sold 1 shirt",
			})
			switch {
			case err != nil:
				errorCount.Add(1)
			case reply.Outcome == "applied":
				successCount.Add(1)
			case reply.Kind == "InsufficientStock":
				rejectedCount.Add(1)
			default:
				errorCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := int(successCount.Load())
	rejected := int(rejectedCount.Load())

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Rejected:         %d\n", rejected)
	fmt.Printf("Errors:           %d\n", errorCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	failed := false
	if success == initialStock && rejected == extra {
		fmt.Printf("PASS: Exactly %d sales succeeded, %d rejected\n", initialStock, extra)
	} else {
		failed = true
		fmt.Printf("FAIL: Expected %d success/%d rejected, got %d/%d\n",
			initialStock, extra, success, rejected)
	}

	after, err := client.Inventory(ctx, &rpc.InventoryRequest{})
	if err != nil {
		return fmt.Errorf("failed to read inventory: %w", err)
	}
	fmt.Printf("Final Stock:      %d\n", after.Counts["shirts"])

	if after.Counts["shirts"] == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		failed = true
		fmt.Printf("FAIL: Expected stock 0, got %d\n", after.Counts["shirts"])
	}

	if failed {
		return errors.New("stress test failed")
	}
	return nil
}
