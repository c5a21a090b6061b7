package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/discogo"
	"github.com/hupe1980/discogo/codec"
	"github.com/hupe1980/discogo/index"
	"github.com/hupe1980/discogo/internal/cli"
	"github.com/spf13/cobra"
)

const cnfHelp = "cnf format example: a b & ~c d & e"

type queryCmd struct {
	flags   cli.Flags
	view    string
	asJSON  bool
	codecID string
}

func newRootCmd() *cobra.Command {
	q := &queryCmd{}

	cmd := &cobra.Command{
		Use:   "discogo-query <db> keys|values|uvalues|info|item <key>|cnf <query...>",
		Short: "Query a discogo index",
		Long: `Query a discogo index.

Commands:
  keys      list all keys
  values    list all values
  uvalues   list all unique values
  info      print index features
  item KEY  list the values of KEY
  cnf Q...  evaluate a CNF query, optionally restricted by --view

` + cnfHelp,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          q.run,
	}

	// Query tokens such as "~a" or "&" must reach RunE untouched.
	cmd.Flags().SetInterspersed(false)

	q.flags.Register(cmd)
	cmd.Flags().StringVar(&q.view, "view", "", "view file restricting cnf results (default $VIEW)")
	cmd.Flags().BoolVar(&q.asJSON, "json", false, "print info as JSON")
	cmd.Flags().StringVar(&q.codecID, "codec", "go-json", "JSON codec for --json: json or go-json")
	return cmd
}

func (q *queryCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	env, err := cli.Setup(ctx, &q.flags)
	if err != nil {
		return err
	}

	db, err := env.Open(ctx, args[0])
	if err != nil {
		return fmt.Errorf("invalid discogo index in %s: %w", args[0], err)
	}
	defer db.Close()

	err = q.dispatch(ctx, env, db, args[1], args[2:], stdout, stderr)
	if ferr := env.Finish(); ferr != nil && err == nil {
		err = fmt.Errorf("writing metrics: %w", ferr)
	}
	return err
}

func (q *queryCmd) dispatch(ctx context.Context, env *cli.Env, db *discogo.DB, command string, rest []string, stdout, stderr io.Writer) error {
	switch command {
	case "info":
		return q.info(db, stdout)
	case "keys":
		return printList(ctx, stdout, db.Keys)
	case "values":
		return printList(ctx, stdout, db.Values)
	case "uvalues":
		return printList(ctx, stdout, db.UniqueValues)
	case "item":
		if len(rest) < 1 {
			return errors.New("specify a key")
		}
		cur, err := db.Get(ctx, []byte(rest[0]))
		if err != nil {
			return err
		}
		return cli.PrintCursor(stdout, cur)
	case "cnf":
		if len(rest) < 1 {
			return errors.New("specify a query")
		}
		return q.cnf(ctx, env, db, rest, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q (keys, values, uvalues, info, item, cnf)", command)
	}
}

func (q *queryCmd) info(db *discogo.DB, w io.Writer) error {
	features := db.Info()
	if !q.asJSON {
		return cli.PrintInfo(w, features)
	}

	c, ok := codec.ByName(q.codecID)
	if !ok {
		return fmt.Errorf("unknown codec %q", q.codecID)
	}
	b, err := codec.Encode(c, features, true)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func (q *queryCmd) cnf(ctx context.Context, env *cli.Env, db *discogo.DB, tokens []string, stdout, stderr io.Writer) error {
	viewName := q.view
	if viewName == "" {
		viewName = env.Config.Query.View
	}

	var v *index.View
	if viewName != "" {
		var err error
		v, err = env.LoadView(ctx, db, viewName)
		if err != nil {
			return fmt.Errorf("loading view from %s failed: %w", viewName, err)
		}
		defer v.Release()
		fmt.Fprintf(stderr, "View loaded successfully (%d items)\n", v.Size())
	}

	cur, err := db.Query(ctx, tokens, v)
	if err != nil {
		if errors.Is(err, discogo.ErrInvalidQuery) {
			return fmt.Errorf("query failed: %w\n%s", err, cnfHelp)
		}
		return fmt.Errorf("query failed: %w", err)
	}
	return cli.PrintCursor(stdout, cur)
}

func printList(ctx context.Context, w io.Writer, fn func(context.Context) (*index.Cursor, error)) error {
	cur, err := fn(ctx)
	if err != nil {
		return err
	}
	return cli.PrintCursor(w, cur)
}
