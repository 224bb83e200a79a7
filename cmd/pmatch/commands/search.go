// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"cogentcore.org/vcompute/avg"
	"cogentcore.org/vcompute/config"
	"cogentcore.org/vcompute/imutil"
	"cogentcore.org/vcompute/pmatch"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search an image for a patch cut out of it",
	Long: `Search loads the image (or makes a random one), cuts out the
configured patch and searches the whole image for it, printing the
best position and its cosine similarity.

With --bench N, the search is then repeated N times and the average
time per search is printed.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&flags.Kind, "kind", pmatch.KindVk, "search implementation: cpu or vk")
	f.StringVar(&flags.Image, "image", "", "image file to search; a random image if empty")
	f.IntVar(&flags.RandW, "rand-w", 320, "width of the random image")
	f.IntVar(&flags.RandH, "rand-h", 240, "height of the random image")
	f.Int64Var(&flags.Seed, "seed", 1, "seed of the random image")
	f.IntVar(&flags.Patch.X, "px", 20, "patch x offset in the image")
	f.IntVar(&flags.Patch.Y, "py", 40, "patch y offset in the image")
	f.IntVar(&flags.Patch.W, "pw", 50, "patch width")
	f.IntVar(&flags.Patch.H, "ph", 50, "patch height")
	f.IntVar(&flags.Bench, "bench", 0, "number of timed search iterations")
	rootCmd.AddCommand(searchCmd)
}

// searchImages returns the image to search and the patch cut out of it.
func searchImages(c *config.Config) (img, pat *image.RGBA, err error) {
	if c.Image == "" {
		img = imutil.RandRGBA(c.Seed, c.RandW, c.RandH)
	} else {
		var im image.Image
		im, err = imutil.Load(c.Image)
		if err != nil {
			return nil, nil, err
		}
		img = imutil.ToRGBA(im)
	}
	r := c.Patch.Rect(img.Bounds().Min)
	if !r.In(img.Bounds()) {
		return nil, nil, fmt.Errorf("patch %v is not within image %v", r, img.Bounds())
	}
	sub, err := imutil.Sub(img, r)
	if err != nil {
		return nil, nil, err
	}
	return img, imutil.RGBAReset0(sub.(*image.RGBA)), nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	img, pat, err := searchImages(cfg)
	if err != nil {
		return err
	}
	pavg, pdev := avg.RGBA(pat)
	slog.Info("pmatch: searching", "image", img.Bounds().Size(), "patch", pat.Bounds().Size(), "patchAvg", pavg, "patchDev", pdev)

	inst, err := pmatch.NewInstance(cfg.Kind, img.Bounds(), pat.Bounds(), img.Stride, pat.Stride, gpuOptions(cfg))
	if err != nil {
		return err
	}
	defer inst.Destroy()

	x, y, cos, err := inst.SearchRGBA(img, pat)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "kind=%s x=%d y=%d cos=%.6f\n", inst.Kind(), x, y, cos)
	if x != cfg.Patch.X || y != cfg.Patch.Y {
		slog.Warn("pmatch: best match is not where the patch was cut out", "x", x, "y", y, "patchX", cfg.Patch.X, "patchY", cfg.Patch.Y)
	}

	if cfg.Bench <= 0 {
		return nil
	}
	start := time.Now()
	for range cfg.Bench {
		if _, _, _, err := inst.SearchRGBA(img, pat); err != nil {
			return err
		}
	}
	el := time.Since(start)
	fmt.Fprintf(cmd.OutOrStdout(), "bench kind=%s n=%d total=%v per_search=%v\n", inst.Kind(), cfg.Bench, el, el/time.Duration(cfg.Bench))
	return nil
}
