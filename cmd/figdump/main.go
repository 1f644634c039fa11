// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stephens2424/writerset"

	fig "github.com/vectorfig/figcore"
	"github.com/vectorfig/figcore/internal/assets"
)

// newTeeWriter fans out command output to stdout and, when --tee is set,
// an additional file, grounded on the teacher's loopFilesWorker/dump.go
// habit of writing dump output through a single io.Writer so every
// subcommand shares one formatting path.
var teePath string

func newTeeWriter() (io.Writer, func(), error) {
	ws := writerset.New()
	ws.Add(os.Stdout)
	closeFn := func() {}
	if teePath != "" {
		f, err := os.Create(teePath)
		if err != nil {
			return nil, nil, fmt.Errorf("figdump: opening tee file: %w", err)
		}
		ws.Add(f)
		closeFn = func() { f.Close() }
	}
	return ws, closeFn, nil
}

func openTree(path string) (*fig.Archive, *fig.Tree, error) {
	arc, err := fig.Open(path, zerolog.Nop())
	if err != nil {
		return nil, nil, fmt.Errorf("figdump: opening %s: %w", path, err)
	}
	tree, err := fig.Decode(arc)
	if err != nil {
		return nil, nil, fmt.Errorf("figdump: decoding %s: %w", path, err)
	}
	return arc, tree, nil
}

func main() {
	root := &cobra.Command{
		Use:   "figdump",
		Short: "Inspect and render design-tool document archives",
	}
	root.PersistentFlags().StringVar(&teePath, "tee", "", "also write command output to this file")

	root.AddCommand(inspectCmd(), pagesCmd(), renderCmd(), getImageCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Print a summary of an archive's entries and node counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, closeFn, err := newTeeWriter()
			if err != nil {
				return err
			}
			defer closeFn()

			arc, tree, err := openTree(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
			fmt.Fprintf(tw, "canvas bytes:\t%d\n", len(arc.Canvas))
			fmt.Fprintf(tw, "images:\t%d\n", len(arc.Images))
			fmt.Fprintf(tw, "thumbnail bytes:\t%d\n", len(arc.Thumbnail))
			fmt.Fprintf(tw, "blobs:\t%d\n", len(tree.Blobs))
			fmt.Fprintf(tw, "nodes:\t%d\n", len(tree.ByID))
			fmt.Fprintf(tw, "pages:\t%d\n", len(tree.Pages()))
			fmt.Fprintf(tw, "warnings:\t%d\n", len(tree.Warnings))
			for _, w := range tree.Warnings {
				fmt.Fprintf(tw, "  %s\n", w.String())
			}
			return tw.Flush()
		},
	}
}

func pagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages <archive>",
		Short: "List the canvas pages in an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, closeFn, err := newTeeWriter()
			if err != nil {
				return err
			}
			defer closeFn()

			_, tree, err := openTree(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
			fmt.Fprintf(tw, "id\tname\tchildren\n")
			for _, p := range tree.Pages() {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", p.ID, p.Name, len(p.Children))
			}
			return tw.Flush()
		},
	}
}

func renderCmd() *cobra.Command {
	var nodeID string
	cmd := &cobra.Command{
		Use:   "render <archive>",
		Short: "Render a page or node subtree to vector markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, closeFn, err := newTeeWriter()
			if err != nil {
				return err
			}
			defer closeFn()

			arc, tree, err := openTree(args[0])
			if err != nil {
				return err
			}

			opts := fig.DefaultRenderOptions()
			opts.NodeIndex = tree.ByID

			var result *fig.RenderResult
			if nodeID != "" {
				result, err = fig.RenderSubtree(tree, nodeID, arc.Images, opts)
			} else {
				pages := tree.Pages()
				if len(pages) == 0 {
					return fmt.Errorf("figdump: archive has no pages to render")
				}
				result, err = fig.Render(pages[0], arc.Images, tree.Blobs, opts)
			}
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w.String())
			}
			_, err = io.WriteString(out, result.Output+"\n")
			return err
		},
	}
	cmd.Flags().StringVar(&nodeID, "node", "", "render only the subtree rooted at this node id (default: first page)")
	return cmd
}

// serveCmd exposes the embedded debug assets (internal/assets) over
// plain HTTP through internal/assets.FileSystem.
func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the embedded debug assets over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(os.Stderr, "figdump: serving debug assets on %s\n", addr)
			return http.ListenAndServe(addr, http.FileServer(assets.FileSystem()))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8090", "address to listen on")
	return cmd
}

func getImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-image <archive> <hash>",
		Short: "Write an image entry's raw bytes to stdout (or --tee)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, closeFn, err := newTeeWriter()
			if err != nil {
				return err
			}
			defer closeFn()

			arc, err := fig.Open(args[0], zerolog.Nop())
			if err != nil {
				return fmt.Errorf("figdump: opening %s: %w", args[0], err)
			}
			data, err := arc.GetImage(args[1])
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}
