package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/discogo"
	"github.com/hupe1980/discogo/index"
	"github.com/hupe1980/discogo/internal/cli"
	"github.com/hupe1980/discogo/internal/config"
	"github.com/spf13/cobra"
)

type createCmd struct {
	flags       cli.Flags
	keysOnly    bool
	noCompress  bool
	compression string
	uniqueItems bool
	hash        bool
	probe       string
}

func newRootCmd() *cobra.Command {
	c := &createCmd{}

	cmd := &cobra.Command{
		Use:   "discogo-create <out> <input>",
		Short: "Create a discogo index",
		Long: `Create a discogo index.

input contains a key-value pair on each line, divided by whitespace, or one
key per line with --keys-only. Use "-" to read from stdin.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}

	c.flags.Register(cmd)
	f := cmd.Flags()
	f.BoolVar(&c.keysOnly, "keys-only", false, "input holds keys only (default $KEYS_ONLY)")
	f.BoolVar(&c.noCompress, "no-compress", false, "store the body uncompressed (default $DONT_COMPRESS)")
	f.StringVar(&c.compression, "compression", "", "body compression: none, lz4 or zstd")
	f.BoolVar(&c.uniqueItems, "unique-items", true, "drop duplicate values per key")
	f.BoolVar(&c.hash, "hash", false, "build a hashed key table")
	f.StringVar(&c.probe, "probe", "", "print the values of this key after writing")
	return cmd
}

func (c *createCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	out, input := args[0], args[1]

	env, err := cli.Setup(ctx, &c.flags)
	if err != nil {
		return err
	}
	c.applyFlags(cmd, &env.Config.Create)

	data, err := c.build(env.Config.Create, input, stderr)
	if err != nil {
		return err
	}

	if err := c.write(ctx, env, out, data); err != nil {
		return fmt.Errorf("writing %s failed: %w", out, err)
	}
	fmt.Fprintf(stderr, "Ok! Index written to %s\n", out)

	db, err := env.Open(ctx, out)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := cli.PrintInfo(stdout, db.Info()); err != nil {
		return err
	}
	if c.probe != "" {
		cur, err := db.Get(ctx, []byte(c.probe))
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", c.probe, err)
		} else if err := cli.PrintCursor(stdout, cur); err != nil {
			return err
		}
	}
	return env.Finish()
}

// applyFlags lets explicitly set flags win over config and environment.
func (c *createCmd) applyFlags(cmd *cobra.Command, cfg *config.CreateConfig) {
	f := cmd.Flags()
	if f.Changed("keys-only") {
		cfg.KeysOnly = c.keysOnly
	}
	if f.Changed("compression") {
		cfg.Compression = c.compression
	}
	if c.noCompress {
		cfg.Compression = index.CompressionNone.String()
	}
	if f.Changed("unique-items") {
		cfg.UniqueItems = c.uniqueItems
	}
	if f.Changed("hash") {
		cfg.Hash = c.hash
	}
}

func (c *createCmd) build(cfg config.CreateConfig, input string, stderr io.Writer) ([]byte, error) {
	if _, err := index.ParseCompression(cfg.Compression); err != nil {
		return nil, err
	}

	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("couldn't open %s: %w", input, err)
		}
		defer f.Close()
		r = f
	}

	b := index.NewBuilder()
	defer b.Release()

	if cfg.KeysOnly {
		n, err := discogo.ReadKeys(r, b)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(stderr, "%d keys read.\n", n)
	} else {
		n, err := discogo.ReadPairs(r, b)
		if err != nil && !errors.Is(err, discogo.ErrDanglingKey) {
			return nil, err
		}
		if err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
		fmt.Fprintf(stderr, "%d key-value pairs read.\n", n)
	}

	fmt.Fprintln(stderr, "Packing the index..")
	data, err := b.Finalize(cfg.FinalizeOptions())
	if err != nil {
		return nil, fmt.Errorf("packing the index failed: %w", err)
	}
	return data, nil
}

func (c *createCmd) write(ctx context.Context, env *cli.Env, out string, data []byte) error {
	if env.Config.Store.IsLocal() && env.Config.Store.Local.Root == "" {
		return discogo.WriteFile(out, data)
	}
	return env.Store.Put(ctx, out, data)
}
