// Command wheelctl edits and spins a wheel over gRPC.
//
//	wheelctl [-addr host:port] [-session id] <command> [args]
//
// Commands: list, add [label] [weight], label <i> <text>, weight <i> <n>,
// inc <i>, dec <i>, del <i>, spin. Indexes are 1-based like the table
// numbers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/xtding233/spinwheel/internal/rpc"
	"github.com/xtding233/spinwheel/internal/wheel"
)

var errUsage = errors.New("usage")

func main() {
	addr := flag.String("addr", envOr("WHEEL_GRPC_ADDR", "localhost:9090"), "server address")
	sid := flag.String("session", "", "session id (default: shared wheel)")
	timeout := flag.Duration("timeout", 30*time.Second, "call timeout")
	quiet := flag.Bool("q", false, "spin: print only the result")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fail(err)
	}
	defer conn.Close()

	c := rpc.NewClient(conn)
	if *sid != "" {
		c = c.WithSession(*sid)
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, c, flag.Args(), *quiet); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
		}
		fail(err)
	}
}

func run(ctx context.Context, c *rpc.Client, args []string, quiet bool) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	cmd, args := args[0], args[1:]

	var set wheel.OptionSet
	var err error
	switch cmd {
	case "list", "ls":
		set, err = c.List(ctx)
	case "add":
		o := wheel.Option{}
		if len(args) > 0 {
			o.Label = args[0]
		}
		if len(args) > 1 {
			if o.Weight, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("%w: weight %q", errUsage, args[1])
			}
		}
		set, err = c.Add(ctx, o)
	case "label":
		i, rest, perr := index(args, 1)
		if perr != nil {
			return perr
		}
		set, err = c.SetLabel(ctx, i, strings.Join(rest, " "))
	case "weight":
		i, rest, perr := index(args, 1)
		if perr != nil {
			return perr
		}
		w, aerr := strconv.Atoi(rest[0])
		if aerr != nil {
			return fmt.Errorf("%w: weight %q", errUsage, rest[0])
		}
		set, err = c.SetWeight(ctx, i, w)
	case "inc":
		i, _, perr := index(args, 0)
		if perr != nil {
			return perr
		}
		set, err = c.Increment(ctx, i)
	case "dec":
		i, _, perr := index(args, 0)
		if perr != nil {
			return perr
		}
		set, err = c.Decrement(ctx, i)
	case "del", "rm":
		i, _, perr := index(args, 0)
		if perr != nil {
			return perr
		}
		set, err = c.Delete(ctx, i)
	case "spin":
		return spin(ctx, c, quiet)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	if err != nil {
		return err
	}
	printTable(set)
	return nil
}

// index parses the 1-based row number in args[0] and requires at least
// more further args.
func index(args []string, more int) (int, []string, error) {
	if len(args) < 1+more {
		return 0, nil, fmt.Errorf("%w: missing arguments", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, nil, fmt.Errorf("%w: row %q", errUsage, args[0])
	}
	return n - 1, args[1:], nil
}

func spin(ctx context.Context, c *rpc.Client, quiet bool) error {
	sel, started, err := c.Spin(ctx, func(f rpc.Frame) {
		if !quiet && f.Spinning {
			fmt.Fprintf(os.Stderr, "\r%5.1f%%  %8.3f rad", f.Progress*100, f.Angle)
		}
	})
	if !quiet {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}
	if !started {
		fmt.Println("wheel is already spinning")
		return nil
	}
	fmt.Println(sel.Option.Label)
	return nil
}

func printTable(set wheel.OptionSet) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLABEL\tWEIGHT\t%")
	for _, r := range wheel.ViewModel(set) {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.Number, r.Label, r.Weight, r.Percent)
	}
	_ = tw.Flush()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "wheelctl:", err)
	os.Exit(1)
}
