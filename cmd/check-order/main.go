package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
	"github.com/angelopoggi/PFSH-Parser/internal/logging"
	"github.com/angelopoggi/PFSH-Parser/internal/repository/postgres"
	"github.com/angelopoggi/PFSH-Parser/internal/shopify"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/check-order/main.go <shopify_order_id>")
		fmt.Println("Example: go run cmd/check-order/main.go 5512345678901")
		os.Exit(1)
	}

	if err := run(context.Background(), strings.TrimSpace(os.Args[1])); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, arg string) error {
	orderID, err := shopify.ParseOrderID(arg)
	if err != nil {
		return err
	}

	cfg, err := config.LoadShopify()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Console only; diagnostics do not belong in the run log
	logger, closeLog, err := logging.New(cfg.Environment, "warn", "")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()

	admin := shopify.NewAdmin(shopify.NewClient(cfg.Shopify, logger), logger)
	if err := report(ctx, os.Stdout, admin, orderID, logger); err != nil {
		return err
	}

	if cfg.Database.Enabled() {
		printSyncEvents(ctx, os.Stdout, cfg.Database, orderID, logger)
	}
	return nil
}

func report(ctx context.Context, w io.Writer, admin *shopify.Admin, orderID int64, logger *zap.Logger) error {
	fmt.Fprintf(w, "🔍 Fetching order %d from Shopify\n\n", orderID)

	order, err := admin.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}

	fmt.Fprintf(w, "Order:    %s (ID %d)\n", order.Name, order.ID)
	a := order.ShippingAddress
	fmt.Fprintf(w, "Ship to:  %s, %s %s, %s %s %s %s\n", a.Name, a.Address1, a.Address2, a.City, a.ProvinceCode, a.Zip, a.CountryCode)
	fmt.Fprintf(w, "Ship via: %s\n", order.ShipVia())
	fmt.Fprintf(w, "\nLine items (%d):\n", len(order.LineItems))
	for _, li := range order.LineItems {
		fmt.Fprintf(w, "  - SKU %-20s qty %-4d product %d variant %d\n", li.SKU, li.Quantity, li.ProductID, li.VariantID)
	}

	fos, err := admin.ListFulfillmentOrders(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to fetch fulfillment orders: %w", err)
	}
	fmt.Fprintf(w, "\nFulfillment orders (%d):\n", len(fos))
	for _, fo := range fos {
		fmt.Fprintf(w, "  - %d: %s (open: %t)\n", fo.ID, fo.Status, fo.Status.IsOpen())
	}

	fulfillments, err := admin.GetFulfillmentsForOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to fetch fulfillments: %w", err)
	}
	fmt.Fprintf(w, "\nSuccessful fulfillments (%d):\n", len(fulfillments))
	for _, f := range fulfillments {
		fmt.Fprintf(w, "  - %d\n", f.ID)
	}

	risks, err := admin.ListOrderRisks(ctx, orderID)
	if err != nil {
		logger.Warn("Failed to fetch order risks", zap.Error(err))
		return nil
	}
	fmt.Fprintf(w, "\nRisks (%d):\n", len(risks))
	for _, r := range risks {
		fmt.Fprintf(w, "  - %s (score %s): %s\n", r.Recommendation, r.Score, r.Message)
	}
	return nil
}

func printSyncEvents(ctx context.Context, w io.Writer, dbCfg config.DatabaseConfig, orderID int64, logger *zap.Logger) {
	db, err := postgres.NewConnection(ctx, dbCfg)
	if err != nil {
		logger.Warn("Audit database unavailable", zap.Error(err))
		return
	}
	defer db.Close()

	events, err := postgres.NewSyncEventRepository(db, logger).ListByOrderID(ctx, orderID)
	if err != nil {
		logger.Warn("Failed to list sync events", zap.Error(err))
		return
	}
	fmt.Fprintf(w, "\nSync events (%d):\n", len(events))
	for _, e := range events {
		fmt.Fprintf(w, "  - %s %-20s run %s %v\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.EventType, e.RunID, e.EventData)
	}
}
