// Copyright 2026 go-gsply Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Command gsply inspects, compresses and decompresses Gaussian Splatting PLY files.
//
// Usage:
//
//	gsply info scene.ply other.compressed.ply
//	gsply compress scene.ply                  # writes scene.compressed.ply
//	gsply compress -o out.ply --spatial-sort scene.ply
//	gsply decompress scene.compressed.ply     # writes scene.ply
//
// Every flag can also be set through its GSPLY_* environment variable.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ajroetker/go-gsply/gs"
	"github.com/ajroetker/go-gsply/gs/contrib/shquant"
	"github.com/ajroetker/go-gsply/gs/contrib/workerpool"
	"github.com/ajroetker/go-gsply/ply"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := logrus.New()
	if err := newApp(os.Stdout, logger).Run(os.Args); err != nil {
		logger.WithError(err).Error("gsply failed")
		os.Exit(1)
	}
}

// runner holds what the commands share once the global flags are parsed.
type runner struct {
	out    io.Writer
	logger *logrus.Logger
	pool   *workerpool.Pool
	jobs   int
}

func newApp(out io.Writer, logger *logrus.Logger) *cli.App {
	r := &runner{out: out, logger: logger}
	return &cli.App{
		Name:      "gsply",
		Usage:     "read, write and convert Gaussian Splatting PLY files",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "goroutines used per file, 0 for one per CPU",
				EnvVars: []string{"GSPLY_WORKERS"},
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   2,
				Usage:   "files processed concurrently",
				EnvVars: []string{"GSPLY_JOBS"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"GSPLY_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "log format (text or json)",
				EnvVars: []string{"GSPLY_LOG_FORMAT"},
			},
		},
		Before: r.before,
		After:  r.after,
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print the layout of PLY files",
				ArgsUsage: "FILE...",
				Action:    r.info,
			},
			{
				Name:      "compress",
				Usage:     "write the compressed form of PLY files",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					outputFlag(),
					&cli.BoolFlag{
						Name:    "spatial-sort",
						Usage:   "reorder gaussians along a Morton curve before chunking",
						EnvVars: []string{"GSPLY_SPATIAL_SORT"},
					},
					symmetricFlag(),
				},
				Action: r.compress,
			},
			{
				Name:      "decompress",
				Usage:     "write the uncompressed form of compressed PLY files",
				ArgsUsage: "FILE...",
				Flags:     []cli.Flag{outputFlag(), symmetricFlag()},
				Action:    r.decompress,
			},
		},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output path, only with a single input file",
	}
}

func symmetricFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "symmetric-sh",
		Usage:   "use the symmetric SH byte codec (not decoded without bias by other tools)",
		EnvVars: []string{"GSPLY_SYMMETRIC_SH"},
	}
}

func (r *runner) before(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return errors.Wrap(err, "--log-level")
	}
	r.logger.SetLevel(level)

	switch strings.ToLower(c.String("log-format")) {
	case "text":
		r.logger.SetFormatter(&logrus.TextFormatter{})
	case "json":
		r.logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("--log-format: unknown format %q", c.String("log-format"))
	}

	r.jobs = max(1, c.Int("jobs"))
	if workers := c.Int("workers"); workers != 1 && gs.CurrentLevel() == gs.DispatchParallel {
		r.pool = workerpool.New(workers)
	}
	r.logger.WithFields(logrus.Fields{
		"dispatch": gs.CurrentLevel().String(),
		"cpu":      gs.CurrentName(),
		"workers":  r.pool.NumWorkers(),
	}).Debug("gsply starting")
	return nil
}

func (r *runner) after(*cli.Context) error {
	r.pool.Close()
	return nil
}

// options returns the codec options shared by every command.
func (r *runner) options(c *cli.Context) []ply.Option {
	opts := []ply.Option{ply.WithLogger(r.logger)}
	if r.pool != nil {
		opts = append(opts, ply.WithPool(r.pool))
	} else {
		opts = append(opts, ply.WithWorkers(1))
	}
	if c.Bool("symmetric-sh") {
		opts = append(opts, ply.WithSHMode(shquant.ModeSymmetric))
	}
	return opts
}

func (r *runner) info(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("info: no input files")
	}
	infos := make([]ply.Info, len(paths))
	err := r.each(paths, func(i int, path string) error {
		info, err := ply.DetectFormat(path)
		infos[i] = info
		return err
	})
	if err != nil {
		return err
	}
	for i, path := range paths {
		fmt.Fprintf(r.out, "%s: %s\n", path, infos[i])
	}
	return nil
}

func (r *runner) compress(c *cli.Context) error {
	paths, err := r.inputs(c)
	if err != nil {
		return err
	}
	opts := append(r.options(c), ply.WithCompression(true), ply.WithSpatialSort(c.Bool("spatial-sort")))
	return r.each(paths, func(_ int, in string) error {
		return r.convert(in, outputPath(c, in, ply.CompressedPath), opts)
	})
}

func (r *runner) decompress(c *cli.Context) error {
	paths, err := r.inputs(c)
	if err != nil {
		return err
	}
	opts := r.options(c)
	return r.each(paths, func(_ int, in string) error {
		return r.convert(in, outputPath(c, in, decompressedPath), opts)
	})
}

func (r *runner) convert(in, out string, opts []ply.Option) error {
	if in == out {
		return errors.Errorf("%s: output would overwrite the input", in)
	}
	d, err := ply.ReadFile(in, opts...)
	if err != nil {
		return err
	}
	if err := ply.WriteFile(out, d, opts...); err != nil {
		return err
	}
	r.logger.WithFields(logrus.Fields{
		"input":     in,
		"output":    out,
		"gaussians": d.Len(),
		"sh_degree": int(d.SHDegree()),
	}).Info("converted")
	return nil
}

func (r *runner) inputs(c *cli.Context) ([]string, error) {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return nil, errors.Errorf("%s: no input files", c.Command.Name)
	}
	if c.String("output") != "" && len(paths) > 1 {
		return nil, errors.Errorf("%s: --output needs exactly one input file", c.Command.Name)
	}
	return paths, nil
}

func outputPath(c *cli.Context, in string, derive func(string) string) string {
	if out := c.String("output"); out != "" {
		return out
	}
	return derive(in)
}

// decompressedPath maps "scene.compressed.ply" to "scene.ply" and any other name to
// "<name>.decompressed.ply".
func decompressedPath(path string) string {
	if base, ok := strings.CutSuffix(path, ply.CompressedSuffix); ok {
		return base + ".ply"
	}
	return strings.TrimSuffix(path, ".ply") + ".decompressed.ply"
}
