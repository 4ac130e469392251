// Command dashboard prints inventory dashboard metrics and resource lists
// fetched through the cached data layer.
//
// Usage:
//
//	dashboard [flags] [metrics|products|categories|product <id>|category <id>|serve]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/goliatone/go-inventory-cache/aggregate"
	"github.com/goliatone/go-inventory-cache/auth"
	"github.com/goliatone/go-inventory-cache/config"
	"github.com/goliatone/go-inventory-cache/pkg/di"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	configFile := fs.String("config", "", "optional YAML config file")
	timeout := fs.Duration("timeout", 30*time.Second, "overall timeout for one-shot commands")
	addr := fs.String("addr", ":8080", "listen address for serve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	container, err := di.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if token := cfg.Auth.Token; token != "" {
		if user, err := auth.UserFromToken(token); err == nil {
			container.Logger().Info("authenticated", "user", user.Name, "roles", user.Roles)
		}
	}

	cmd := "metrics"
	if fs.NArg() > 0 {
		cmd = fs.Arg(0)
	}

	if cmd == "serve" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, *addr, container)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch cmd {
	case "metrics":
		summary, err := container.Dashboard().Load(ctx)
		if err != nil {
			return err
		}
		return printSummary(out, summary, container.Dashboard().Threshold())
	case "products":
		products, err := container.Inventory().FetchProducts(ctx)
		if err != nil {
			return err
		}
		categories, err := container.Inventory().FetchCategories(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
		for _, p := range products {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, aggregate.CategoryNameOf(categories, p.CategoryID), p.Price.StringFixed(2), p.Stock)
		}
		return tw.Flush()
	case "categories":
		categories, err := container.Inventory().FetchCategories(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
		for _, c := range categories {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
		}
		return tw.Flush()
	case "product", "category":
		if fs.NArg() < 2 {
			return fmt.Errorf("%s requires an id", cmd)
		}
		id := fs.Arg(1)
		if cmd == "product" {
			p, err := container.Inventory().FetchProduct(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n  %s\n  price %s  stock %d  category %s\n", p.ID, p.Name, p.Description, p.Price.StringFixed(2), p.Stock, p.CategoryID)
			return nil
		}
		c, err := container.Inventory().FetchCategory(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n  %s\n", c.ID, c.Name, c.Description)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printSummary(out io.Writer, s aggregate.Summary, threshold int) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Products\t%d\n", s.TotalProducts)
	fmt.Fprintf(tw, "Categories\t%d\n", s.TotalCategories)
	fmt.Fprintf(tw, "Stock value\t%s\n", s.TotalStockValue.StringFixed(2))
	fmt.Fprintf(tw, "Low stock (< %d)\t%d\n", threshold, s.LowStockCount)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.LowStock) > 0 {
		fmt.Fprintln(out)
		tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LOW STOCK\tCATEGORY\tSTOCK")
		for _, item := range s.LowStock {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", item.Product.Name, item.CategoryName, item.Product.Stock)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tPRODUCTS")
	for _, c := range s.CategoryCounts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
	}
	return tw.Flush()
}

func serve(ctx context.Context, addr string, container *di.Container) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(container),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger().Info("status server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
