// Command routectl creates, deletes and lists routes of a running router
// through its admin API, printing the refreshed route table after each change.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"infinite-experiment/router/internal/bridge"
	"infinite-experiment/router/internal/client"
	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/models/dtos/requests"
)

const defaultAdmin = "http://localhost:7676"

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage:
  routectl [-admin URL] list
  routectl [-admin URL] create -from HOST -to HOST [-type redirect|proxy]
  routectl [-admin URL] delete -from HOST [-from HOST ...]`)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("routectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	admin := global.String("admin", envOr("ROUTECTL_ADMIN", defaultAdmin), "admin server base URL")
	timeout := global.Duration("timeout", 10*time.Second, "time limit for the whole command")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		usage(stderr)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.NewRoutesClient(*admin)
	b := bridge.New(api, bridge.ListRefresher(api))

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "list":
		if _, err := b.Load(ctx); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		printRoutes(stdout, b.Routes())
		return 0
	case "create":
		return create(ctx, b, rest, stdout, stderr)
	case "delete":
		return remove(ctx, b, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
}

func create(ctx context.Context, b *bridge.Bridge, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	from := fs.String("from", "", "origin host")
	to := fs.String("to", "", "destination host")
	typ := fs.String("type", string(models.RouteTypeRedirect), "route type: redirect or proxy")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	form := &bridge.CreateForm{From: *from, To: *to, Type: models.RouteType(*typ)}
	out, err := b.SubmitCreate(ctx, form)
	return report(stdout, stderr, out, err)
}

func remove(ctx context.Context, b *bridge.Bridge, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var froms multiFlag
	fs.Var(&froms, "from", "origin host to delete, repeatable")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if len(froms) == 0 {
		fmt.Fprintln(stderr, "error: at least one -from is required")
		return 2
	}

	type result struct {
		out bridge.Outcome
		err error
	}
	results := make([]result, len(froms))

	// Each delete is independent and refreshes on its own completion.
	var wg sync.WaitGroup
	for i, from := range froms {
		wg.Add(1)
		go func(i int, from string) {
			defer wg.Done()
			out, err := b.Delete(ctx, from)
			results[i] = result{out: out, err: err}
		}(i, from)
	}
	wg.Wait()

	code := 0
	var last bridge.Outcome
	for i, res := range results {
		if res.err != nil {
			fmt.Fprintf(stderr, "delete %s: %v\n", froms[i], res.err)
			code = 1
		}
		if res.out.Refreshed {
			last = res.out
		}
	}
	if last.Refreshed {
		printRoutes(stdout, b.Routes())
	}
	return code
}

func report(stdout, stderr io.Writer, out bridge.Outcome, err error) int {
	var verrs requests.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fmt.Fprintf(stderr, "%s %s\n", fe.Field, fe.Message)
		}
		return 2
	case err != nil:
		fmt.Fprintln(stderr, "error:", err)
	}

	if out.Refreshed {
		printRoutes(stdout, out.Routes)
	}
	if err != nil {
		return 1
	}
	return 0
}

func printRoutes(w io.Writer, routes []models.RouteView) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO\tTYPE")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.From, r.To, r.Type)
	}
	_ = tw.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
