// Command dtsdemo registers a small inheritance forest, constructs and
// clones instances of it concurrently, and reports what it built — a
// runnable illustration of the dts package, not a production tool.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/eirsys/dts"
	"github.com/eirsys/dts/internal/dtslock"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

type shape struct {
	Area float64
}

func (s *shape) CopyFrom(src any) error {
	*s = *src.(*shape)
	return nil
}

type circle struct {
	shape
	Radius float64
}

func (c *circle) CopyFrom(src any) error {
	*c = *src.(*circle)
	return nil
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dtsdemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("workers", 8, "number of goroutines constructing objects concurrently")
	perWorker := fs.Int("count", 100, "objects each worker constructs and destroys")
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: dtsdemo [-workers N] [-count N]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sys := dts.New(dts.WithLockProvider(dtslock.StdProvider{}))

	shapeType, err := dts.RegisterAbstractStructType[shape](sys, "Shape", nil)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "register Shape: %v\n", err)
		return 1
	}
	circleType, err := dts.RegisterStructType[circle](sys, "Circle", shapeType)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "register Circle: %v\n", err)
		return 1
	}

	var g errgroup.Group
	for i := 0; i < *workers; i++ {
		g.Go(func() error {
			for j := 0; j < *perWorker; j++ {
				obj, err := sys.Construct(circleType, nil)
				if err != nil {
					return fmt.Errorf("construct circle: %w", err)
				}
				clone, err := sys.Clone(obj)
				if err != nil {
					sys.Destroy(obj)
					return fmt.Errorf("clone circle: %w", err)
				}
				sys.Destroy(obj)
				sys.Destroy(clone)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintf(stdout, "constructed and destroyed %d objects of %q (ref_count now %d)\n",
		*workers**perWorker*2, circleType.Name(), circleType.RefCount())
	return 0
}
