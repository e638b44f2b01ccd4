// Copyright 2024 The mapdata Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// tilecat inspects map data files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bpowers/mapdata"
	"github.com/bpowers/mapdata/tiling"
)

var (
	verbose bool
	boxes   []string
	limit   int
	zoom    int
	useTree bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "tilecat",
		Short:        "Inspect memory-mapped map data files",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	infoCmd := &cobra.Command{
		Use:   "info <FILE>",
		Short: "Print the size, tile count and fingerprint of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	tilesCmd := &cobra.Command{
		Use:   "tiles <FILE>",
		Short: "List the tiles in a file in directory order",
		Args:  cobra.ExactArgs(1),
		RunE:  runTiles,
	}

	queryCmd := &cobra.Command{
		Use:   "query <FILE> --box MINLAT,MINLON,MAXLAT,MAXLON",
		Short: "Print the features with a vertex inside each bounding box",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}
	queryCmd.Flags().StringArrayVar(&boxes, "box", nil, "Bounding box as MINLAT,MINLON,MAXLAT,MAXLON (repeatable)")
	queryCmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many features per box (0 means no limit)")
	queryCmd.Flags().IntVar(&zoom, "zoom", tiling.DefaultZoom, "Zoom level tile ids were assigned at")
	queryCmd.Flags().BoolVar(&useTree, "rtree", false, "Index the tiles present in the file with an R-tree")
	_ = queryCmd.MarkFlagRequired("box")

	rootCmd.AddCommand(infoCmd, tilesCmd, queryCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func open(path string, opts ...mapdata.Option) (*mapdata.Reader, error) {
	return mapdata.Open(path, append([]mapdata.Option{mapdata.WithLogger(logger())}, opts...)...)
}

func runInfo(cmd *cobra.Command, args []string) error {
	r, err := open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	fp, err := r.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Printf("file:        %s\n", args[0])
	fmt.Printf("size:        %d bytes\n", r.Size())
	fmt.Printf("tiles:       %d\n", r.TileCount())
	fmt.Printf("fingerprint: %016x\n", fp)
	return nil
}

func runTiles(cmd *cobra.Command, args []string) error {
	r, err := open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	ids, err := r.TileIDs()
	if err != nil {
		return err
	}
	seen := make(map[int32]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			// lookups only ever return the first entry for an id
			fmt.Printf("%d: shadowed duplicate\n", id)
			continue
		}
		seen[id] = true
		tile, err := r.Tile(id)
		if err != nil {
			fmt.Printf("%d: %v\n", id, err)
			continue
		}
		h := tile.Header()
		fmt.Printf("%d: offset %d, %d features, %d coordinates, %d strings\n",
			id, tile.Offset(), h.FeaturesCount, h.CoordinatesCount, h.StringCount)
	}
	return nil
}

func parseBox(s string) (mapdata.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return mapdata.BoundingBox{}, fmt.Errorf("invalid box %q: want MINLAT,MINLON,MAXLAT,MAXLON", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mapdata.BoundingBox{}, fmt.Errorf("invalid box %q: %w", s, err)
		}
		v[i] = f
	}
	return mapdata.NewBoundingBox(v[0], v[1], v[2], v[3]), nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	parsed := make([]mapdata.BoundingBox, len(boxes))
	for i, s := range boxes {
		box, err := parseBox(s)
		if err != nil {
			return err
		}
		parsed[i] = box
	}

	grid, err := tiling.NewGrid(zoom)
	if err != nil {
		return err
	}
	opt := mapdata.WithSpatialIndex(grid)
	if useTree {
		opt = mapdata.WithRTreeIndex(grid)
	}
	r, err := open(args[0], opt)
	if err != nil {
		return err
	}
	defer r.Close()

	results := make([][]string, len(parsed))
	var g errgroup.Group
	for i, box := range parsed {
		i, box := i, box
		g.Go(func() error {
			return r.ForEachFeature(box, func(d mapdata.FeatureData) bool {
				results[i] = append(results[i], formatFeature(d))
				return limit <= 0 || len(results[i]) < limit
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, lines := range results {
		if len(results) > 1 {
			fmt.Printf("# %s (%d features)\n", boxes[i], len(lines))
		}
		for _, line := range lines {
			fmt.Println(line)
		}
	}
	return nil
}

func formatFeature(d mapdata.FeatureData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\t%s\t%d vertices", d.ID, d.Type, d.Coordinates.Len())
	if !d.Label.IsEmpty() {
		fmt.Fprintf(&sb, "\t%q", d.Label.String())
	}
	for _, p := range d.Properties {
		fmt.Fprintf(&sb, "\t%s=%s", p.Key, p.Value)
	}
	return sb.String()
}
