// Command allot is a terminal dashboard for an allotment server.
//
// Usage:
//
//	allot [-server URL] list
//	allot [-server URL] show ID
//	allot [-server URL] add FIRST LAST PERCENTAGE
//	allot [-server URL] set ID PERCENTAGE
//	allot [-server URL] rm ID
//
// The server URL defaults to $ALLOTMENT_URL, then http://localhost:5001.
// Every command that changes data redraws the dashboard afterwards.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mmynk/allotment/internal/allocation"
	"github.com/mmynk/allotment/internal/client"
	"github.com/mmynk/allotment/internal/dashboard"
)

const defaultServer = "http://localhost:5001"

var errUsage = errors.New("usage: allot [-server URL] list | show ID | add FIRST LAST PERCENTAGE | set ID PERCENTAGE | rm ID")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, dashboard.Message(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("allot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	server := fs.String("server", envOr("ALLOTMENT_URL", defaultServer), "Allotment server URL")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}

	c := client.New(*server)
	cmd, params := rest[0], rest[1:]

	switch cmd {
	case "list":
		if len(params) != 0 {
			return errUsage
		}
		return redraw(ctx, c, out)

	case "show":
		if len(params) != 1 {
			return errUsage
		}
		id, err := strconv.ParseInt(params[0], 10, 64)
		if err != nil {
			return errUsage
		}
		p, err := c.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\t%s %s\t%s%%\n", p.ID, p.FirstName, p.LastName, allocation.FormatPercentage(p.Percentage))
		return nil

	case "add":
		if len(params) != 3 {
			return errUsage
		}
		pct, err := strconv.ParseFloat(params[2], 64)
		if err != nil {
			return errUsage
		}
		if _, err := c.Add(ctx, params[0], params[1], pct); err != nil {
			return err
		}
		return redraw(ctx, c, out)

	case "set":
		if len(params) != 2 {
			return errUsage
		}
		id, err := strconv.ParseInt(params[0], 10, 64)
		if err != nil {
			return errUsage
		}
		pct, err := strconv.ParseFloat(params[1], 64)
		if err != nil {
			return errUsage
		}
		if _, err := c.UpdatePercentage(ctx, id, pct); err != nil {
			return err
		}
		return redraw(ctx, c, out)

	case "rm":
		if len(params) != 1 {
			return errUsage
		}
		id, err := strconv.ParseInt(params[0], 10, 64)
		if err != nil {
			return errUsage
		}
		if err := c.Delete(ctx, id); err != nil {
			return err
		}
		return redraw(ctx, c, out)

	default:
		return errUsage
	}
}

// redraw fetches the current summary and renders the dashboard.
func redraw(ctx context.Context, c *client.Client, out io.Writer) error {
	summary, err := c.List(ctx)
	if err != nil {
		return err
	}
	dashboard.Render(out, summary)
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
