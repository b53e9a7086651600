package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"SkuScraper/internal/app"
	"SkuScraper/internal/models"
	"SkuScraper/pkg/config"
	"SkuScraper/pkg/logger"
	"SkuScraper/utils"

	"github.com/lmittmann/tint"
)

func main() {
	task := flag.String("task", "add", "Task to run: add, batch, export or list")
	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides config")
	sku := flag.String("sku", "", "Product code for the add task")
	skus := flag.String("skus", "", "Comma separated product codes for the batch task")
	skuFile := flag.String("file", "", "File with one product code per line for the batch task")
	out := flag.String("out", "products.csv", "Export destination, - for stdout")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Setup("info").Error("failed to load config", tint.Err(err))
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logger.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", tint.Err(err))
		os.Exit(1)
	}
	defer application.Close()

	slog.Info("Running task", "task", *task, "engine", cfg.Scraper.Engine, "storage", cfg.Storage.Driver)

	if err := run(ctx, application, *task, *sku, *skus, *skuFile, *out); err != nil {
		slog.Error("task failed", "task", *task, tint.Err(err))
		application.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, application *app.App, task, sku, skus, skuFile, out string) error {
	switch task {
	case "add":
		rec, err := application.RunAdd(ctx, sku)
		if err != nil {
			return err
		}
		if rec != nil {
			return printTable(os.Stdout, []models.ProductRecord{*rec})
		}
		return nil

	case "batch":
		codes, err := batchCodes(skus, skuFile)
		if err != nil {
			return err
		}
		result := application.RunBatch(ctx, codes)
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d of %d codes failed", len(result.Failed), len(codes))
		}
		return nil

	case "export":
		w := io.Writer(os.Stdout)
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		n, err := application.Export(ctx, w)
		if err != nil {
			return err
		}
		slog.Info("export finished", "records", n, "out", out)
		return nil

	case "list":
		recs, err := application.List(ctx, models.ProductFilters{})
		if err != nil {
			return err
		}
		return printTable(os.Stdout, recs)

	default:
		return fmt.Errorf("unknown task: %s", task)
	}
}

// batchCodes merges the -skus list and the -file contents, in that order.
func batchCodes(skus, skuFile string) ([]string, error) {
	codes := utils.ParseSKUList(skus)
	if skuFile != "" {
		data, err := os.ReadFile(skuFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", skuFile, err)
		}
		codes = append(codes, utils.ParseSKUList(string(data))...)
	}
	return codes, nil
}

func printTable(w io.Writer, recs []models.ProductRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKU\tNAME\tPRICE\tSTOCK\tITEM ID\tLAST UPDATED")
	for _, rec := range recs {
		itemID := "-"
		if rec.ItemID != nil {
			itemID = *rec.ItemID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.SKU, rec.Name, rec.Price, rec.StockAvailable.String(), itemID, rec.LastUpdated)
	}
	return tw.Flush()
}
