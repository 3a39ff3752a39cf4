/*
Command bstree builds, shows and checks encoded search trees.

	bstree build --variant rbtree --in keys.txt -o keys.tree
	bstree show --variant rbtree keys.tree
	bstree check --variant rbtree keys.tree

Input for build has one entry per line, either a bare key or key=value.
Empty lines and lines starting with '#' are skipped.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/bstree"
	"github.com/npillmayer/bstree/avl"
	"github.com/npillmayer/bstree/rbtree"
	"github.com/npillmayer/bstree/splay"
	"github.com/npillmayer/bstree/treap"
	"github.com/npillmayer/schuko/tracing"
	cli "github.com/urfave/cli/v2"
)

// tree is what the commands need from a map of any variant.
type tree interface {
	bstree.Map[string, string]
	bstree.Inspector
}

var variants = map[string]func(opts ...bstree.Option) tree{
	"avl":    func(opts ...bstree.Option) tree { return avl.New[string, string](opts...) },
	"rbtree": func(opts ...bstree.Option) tree { return rbtree.New[string, string](opts...) },
	"splay":  func(opts ...bstree.Option) tree { return splay.New[string, string](opts...) },
	"treap":  func(opts ...bstree.Option) tree { return treap.New[string, string](opts...) },
}

func main() {
	app := cli.NewApp()
	app.Name = "bstree"
	app.Usage = "build and inspect balanced search trees"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "trace rebalancing steps",
		},
	}
	app.Before = func(cctx *cli.Context) error {
		level := tracing.LevelError
		if cctx.Bool("debug") {
			level = tracing.LevelDebug
		}
		for _, key := range []string{"bstree", "bstree.core", "bstree.arena",
			"bstree.avl", "bstree.rbtree", "bstree.splay", "bstree.treap"} {
			tracing.Select(key).SetTraceLevel(level)
		}
		return nil
	}
	app.Commands = []*cli.Command{
		buildCmd,
		showCmd,
		checkCmd,
	}
	app.RunAndExitOnError()
}

func variantFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "variant",
		Aliases: []string{"v"},
		Usage:   "balancing strategy: avl, rbtree, splay or treap",
		Value:   "avl",
	}
}

var buildCmd = &cli.Command{
	Name:      "build",
	Usage:     "insert entries into a tree and print it",
	ArgsUsage: "[key[=value] ...]",
	Flags: []cli.Flag{
		variantFlag(),
		&cli.StringFlag{
			Name:  "in",
			Usage: "read entries from file, '-' for stdin",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "write the encoded tree to file",
		},
		&cli.IntFlag{
			Name:  "max-nodes",
			Usage: "limit the number of nodes",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "seed for treap priorities",
		},
	},
	Action: func(cctx *cli.Context) error {
		opts := []bstree.Option{bstree.MaxNodes(cctx.Int("max-nodes"))}
		if cctx.IsSet("seed") {
			opts = append(opts, bstree.Seed(cctx.Uint64("seed")))
		}
		t, err := newTree(cctx, opts...)
		if err != nil {
			return err
		}
		lines := cctx.Args().Slice()
		if in := cctx.String("in"); in != "" {
			more, err := readLines(in)
			if err != nil {
				return err
			}
			lines = append(lines, more...)
		}
		for _, line := range lines {
			key, value, _ := strings.Cut(line, "=")
			if _, _, err := t.Insert(key, value); err != nil {
				return fmt.Errorf("inserting %q: %w", key, err)
			}
		}
		fmt.Printf("%d entries, height %d\n", t.Len(), t.Height())
		fmt.Print(t.String())
		if out := cctx.String("out"); out != "" {
			data, err := t.MarshalBinary()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %d bytes to %s\n", len(data), out)
		}
		return nil
	},
}

var showCmd = &cli.Command{
	Name:      "show",
	Usage:     "print an encoded tree",
	ArgsUsage: "<file>",
	Flags:     []cli.Flag{variantFlag()},
	Action: func(cctx *cli.Context) error {
		t, err := loadTree(cctx)
		if err != nil {
			return err
		}
		fmt.Print(t.String())
		for k, v := range t.All() {
			fmt.Printf("%s=%s\n", k, v)
		}
		return nil
	},
}

var checkCmd = &cli.Command{
	Name:      "check",
	Usage:     "verify the invariants of an encoded tree",
	ArgsUsage: "<file>",
	Flags:     []cli.Flag{variantFlag()},
	Action: func(cctx *cli.Context) error {
		t, err := loadTree(cctx)
		if err != nil {
			return err
		}
		if err := t.Verify(); err != nil {
			return cli.Exit(fmt.Sprintf("invalid tree: %v", err), 1)
		}
		fmt.Printf("ok: %d entries, height %d\n", t.Len(), t.Height())
		return nil
	},
}

func newTree(cctx *cli.Context, opts ...bstree.Option) (tree, error) {
	name := cctx.String("variant")
	create, ok := variants[name]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q", name)
	}
	return create(opts...), nil
}

func loadTree(cctx *cli.Context) (tree, error) {
	if cctx.Args().Len() != 1 {
		return nil, fmt.Errorf("expected exactly one file argument")
	}
	t, err := newTree(cctx)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(cctx.Args().First())
	if err != nil {
		return nil, err
	}
	if err := t.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return t, nil
}

func readLines(name string) ([]string, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
