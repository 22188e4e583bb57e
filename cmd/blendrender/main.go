// Command blendrender draws scene files with the blend library and writes
// them as PNG images.
//
// Usage:
//
//	blendrender [flags] [scene.yaml ...]
//
// Scenes come from the positional files and from -demo, which names
// built-in scenes ("all" selects every one). Each scene is written to
// <out>/<name>.png.
//
// Defaults for -out, -threads and -log-file are read from BLENDRENDER_OUT,
// BLENDRENDER_THREADS and BLENDRENDER_LOG_FILE, which may also be set in a
// .env file in the working directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gogpu/blend"
	"github.com/gogpu/blend/cmd/blendrender/internal/logging"
	"github.com/gogpu/blend/cmd/blendrender/internal/scene"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type job struct {
	name string
	load func() (*scene.Scene, error)
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "blendrender: .env: %v\n", err)
		return exitUsage
	}

	defThreads := 0
	if v := os.Getenv("BLENDRENDER_THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > scene.MaxThreads {
			fmt.Fprintf(stderr, "blendrender: BLENDRENDER_THREADS=%q is not a thread count\n", v)
			return exitUsage
		}
		defThreads = n
	}

	fset := flag.NewFlagSet("blendrender", flag.ContinueOnError)
	fset.SetOutput(stderr)
	var (
		demos   = fset.String("demo", "", "comma-separated built-in scenes to render, or \"all\"")
		list    = fset.Bool("list", false, "list built-in scenes and exit")
		out     = fset.String("out", envOr("BLENDRENDER_OUT", "."), "output directory")
		threads = fset.Int("threads", defThreads, "worker threads per scene, 0 renders synchronously")
		verbose = fset.Bool("v", false, "debug logging")
		logFile = fset.String("log-file", os.Getenv("BLENDRENDER_LOG_FILE"), "also write JSON logs to this rotated file")
	)
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}

	if *list {
		for _, name := range scene.DemoNames() {
			fmt.Fprintln(stdout, name)
		}
		return exitOK
	}
	if *threads < 0 || *threads > scene.MaxThreads {
		fmt.Fprintf(stderr, "blendrender: -threads must be in [0, %d]\n", scene.MaxThreads)
		return exitUsage
	}

	jobs, err := collect(*demos, fset.Args())
	if err != nil {
		fmt.Fprintf(stderr, "blendrender: %v\n", err)
		return exitUsage
	}
	if len(jobs) == 0 {
		fmt.Fprintln(stderr, "blendrender: no scenes given, use -demo or pass scene files")
		fset.Usage()
		return exitUsage
	}

	log, closeLog := logging.New(logging.Config{Verbose: *verbose, FilePath: *logFile}, stderr)
	defer func() {
		_ = log.Sync()
		if err := closeLog(); err != nil {
			fmt.Fprintf(stderr, "blendrender: close log file: %v\n", err)
		}
	}()
	blend.SetLogger(logging.NewSlog(log.Named("blend")))
	defer blend.SetLogger(nil)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Error("create output directory", zap.String("dir", *out), zap.Error(err))
		return exitError
	}

	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)
	failed := 0
	for _, j := range jobs {
		path, elapsed, err := render(j, *out, *threads, log)
		if err != nil {
			failed++
			log.Error("render failed", zap.String("scene", j.name), zap.Error(err))
			fail.Fprintf(stdout, "FAIL %s: %v\n", j.name, err)
			continue
		}
		ok.Fprintf(stdout, "ok   %s -> %s (%v)\n", j.name, path, elapsed.Round(time.Millisecond))
	}
	if failed > 0 {
		fail.Fprintf(stdout, "%d of %d scenes failed\n", failed, len(jobs))
		return exitError
	}
	return exitOK
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// collect turns the -demo list and scene file arguments into jobs.
func collect(demos string, files []string) ([]job, error) {
	var jobs []job
	if demos != "" {
		names := strings.Split(demos, ",")
		if demos == "all" {
			names = scene.DemoNames()
		}
		known := scene.DemoNames()
		for _, name := range names {
			name = strings.TrimSpace(name)
			if !slices.Contains(known, name) {
				return nil, fmt.Errorf("unknown demo %q, see -list", name)
			}
			jobs = append(jobs, job{name: name, load: func() (*scene.Scene, error) { return scene.Demo(name) }})
		}
	}
	for _, file := range files {
		jobs = append(jobs, job{name: file, load: func() (*scene.Scene, error) {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return scene.Read(f)
		}})
	}
	return jobs, nil
}

func render(j job, dir string, threads int, log *zap.Logger) (string, time.Duration, error) {
	start := time.Now()
	s, err := j.load()
	if err != nil {
		return "", 0, err
	}
	img, err := scene.Render(s, scene.Options{Threads: threads, Log: log})
	if err != nil {
		return "", 0, err
	}
	defer img.Dispose()

	path := filepath.Join(dir, s.Name+".png")
	if err := img.SavePNG(path); err != nil {
		return "", 0, err
	}
	elapsed := time.Since(start)
	log.Info("scene written",
		zap.String("scene", s.Name),
		zap.String("path", path),
		zap.Duration("elapsed", elapsed))
	return path, elapsed, nil
}
