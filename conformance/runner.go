package conformance

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"runtime"
	"strings"
	"time"
)

// Status is the outcome of one case.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result records the outcome of one case.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	Output   []string      `json:"output,omitempty"`
}

// recorder is the T handed to cases outside of go test.
type recorder struct {
	failed bool
	output []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.failed = true
	r.output = append(r.output, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (r *recorder) Logf(format string, args ...interface{}) {
	r.output = append(r.output, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// FailNow stops the case goroutine, like testing.T.FailNow.
func (r *recorder) FailNow() {
	r.failed = true
	runtime.Goexit()
}

// runCase runs c on its own goroutine so FailNow can end it early.
func runCase(ctx context.Context, s *Suite, c Case) Result {
	rec := &recorder{}
	start := time.Now()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				rec.failed = true
				rec.output = append(rec.output, fmt.Sprintf("panic: %v", r))
			}
		}()
		c.Run(ctx, rec, s)
	}()
	<-done

	res := Result{
		Name:     c.FullName(),
		Status:   StatusPass,
		Duration: time.Since(start),
		Output:   rec.output,
	}
	if rec.failed {
		res.Status = StatusFail
	}
	return res
}

// Runner executes cases and prints progress in the style of go test -v.
type Runner struct {
	Suite   *Suite
	Filter  *regexp.Regexp // nil runs every case
	Out     io.Writer
	Verbose bool
}

// Run executes the selected cases sequentially. With a nil Suite every
// case is reported as skipped with reason.
func (r *Runner) Run(ctx context.Context, reason string) []Result {
	var results []Result
	for _, c := range Cases() {
		if r.Filter != nil && !r.Filter.MatchString(c.FullName()) {
			continue
		}
		if r.Verbose {
			fmt.Fprintf(r.Out, "=== RUN   %s\n", c.FullName())
		}

		var res Result
		if r.Suite == nil {
			res = Result{Name: c.FullName(), Status: StatusSkip, Output: []string{reason}}
		} else {
			res = runCase(ctx, r.Suite, c)
		}
		results = append(results, res)

		if r.Verbose || res.Status == StatusFail {
			fmt.Fprintf(r.Out, "--- %s: %s (%.2fs)\n",
				strings.ToUpper(string(res.Status)), res.Name, res.Duration.Seconds())
			for _, line := range res.Output {
				fmt.Fprintf(r.Out, "    %s\n", strings.ReplaceAll(line, "\n", "\n    "))
			}
		}
	}
	return results
}

// Failed reports whether any result failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}
