// Command ndcheck runs the array binding conformance suite against a
// project module.
//
// With the module available it runs every case verbosely and exits with
// status 1 if any case fails. Without it, it prints setup instructions and
// exits with status 1.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"

	"github.com/golang/glog"
	"github.com/spf13/pflag"

	"github.com/LynnColeArt/ndwrap"
	"github.com/LynnColeArt/ndwrap/compute"
	"github.com/LynnColeArt/ndwrap/conformance"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	glog.Flush()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("ndcheck", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	module := fs.String("module", conformance.DefaultModule, "module to import the array functions from")
	runExpr := fs.String("run", "", "run only cases whose Group/Name matches this regexp")
	kernels := fs.String("kernels", "", fmt.Sprintf("kernel set to use %v", compute.Available()))
	reportPath := fs.String("report", "", "write a JSON report to this file")
	fs.AddGoFlagSet(flag.CommandLine)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	var filter *regexp.Regexp
	if *runExpr != "" {
		re, err := regexp.Compile(*runExpr)
		if err != nil {
			fmt.Fprintf(stderr, "ndcheck: bad -run expression: %v\n", err)
			return 2
		}
		filter = re
	}
	if *kernels != "" {
		if err := compute.Use(*kernels); err != nil {
			fmt.Fprintf(stderr, "ndcheck: %v\n", err)
			return 2
		}
	}

	suite, err := conformance.Load(*module)
	if err != nil {
		fmt.Fprintf(stdout, "Warning: Could not import from %s: %v\n", *module, err)
		fmt.Fprintf(stdout, "These tests require %s to be built into this binary\n", *module)
		conformance.PrintInstructions(stdout, *module)
		return 1
	}

	version, _ := ndwrap.Version()
	if version == "" {
		version = "(devel)"
	}
	fmt.Fprintf(stdout, "ndwrap %s, %s kernels, %s\n", version, compute.Current().Name(), compute.Info())

	runner := conformance.Runner{
		Suite:   suite,
		Filter:  filter,
		Out:     stdout,
		Verbose: true,
	}
	results := runner.Run(ctx, "")

	if *reportPath != "" {
		rep := conformance.NewReport(*module, results)
		rep.Kernels = compute.Current().Name()
		rep.CPU = compute.Info()
		if err := conformance.WriteReport(*reportPath, rep); err != nil {
			glog.Errorf("ndcheck: %v", err)
			fmt.Fprintf(stderr, "ndcheck: %v\n", err)
			return 1
		}
	}

	if conformance.Failed(results) {
		fmt.Fprintln(stdout, "FAIL")
		return 1
	}
	fmt.Fprintln(stdout, "PASS")
	return 0
}
