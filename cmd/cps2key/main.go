// Command cps2key recovers a CPS2 fn2 key from known plaintext/ciphertext
// pairs.
//
// Usage:
//
//	cps2key [-solver gini|gophersat] [-timeout 5m] [-pair pt:ct]... [-dimacs file] [-v]
//
// Without -pair, the six sample pairs are used. The exit status is 0 when a
// key was found, 2 when no key fits the pairs, 3 when the search ran out of
// time, and 1 on any other failure, including a recovered key that does not
// reproduce the pairs. Defaults come from CPS2_SOLVER, CPS2_TIMEOUT,
// CPS2_VERBOSE and CPS2_DIMACS.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jedisct1/go-cps2"
	"github.com/jedisct1/go-cps2/bv"
	"github.com/jedisct1/go-cps2/internal/config"
	"github.com/jedisct1/go-cps2/internal/helpers"
)

const (
	exitSat     = 0
	exitSetup   = 1
	exitUnsat   = 2
	exitUnknown = 3
)

var errKeyMismatch = errors.New("key does not reproduce every pair")

type pairList []cps2.Pair

func (l *pairList) String() string {
	if l == nil {
		return ""
	}
	s := make([]string, len(*l))
	for i, p := range *l {
		s[i] = p.String()
	}
	return strings.Join(s, ",")
}

func (l *pairList) Set(v string) error {
	p, err := cps2.ParsePair(v)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("cps2key", flag.ContinueOnError)
	fs.SetOutput(stderr)
	backend := fs.String("solver", cfg.Solver.Backend, "solver backend: gini or gophersat")
	timeout := fs.Duration("timeout", cfg.Solver.Timeout, "solving budget, 0 for none")
	dimacs := fs.String("dimacs", cfg.Output.DIMACS, "write the constraint system as DIMACS CNF to `file`")
	verbose := fs.Bool("v", cfg.Output.Verbose, "log progress to stderr")
	var pairs pairList
	fs.Var(&pairs, "pair", "known `plaintext:ciphertext` pair, repeatable")
	if err := fs.Parse(args); err != nil {
		return exitSetup
	}
	if len(pairs) == 0 {
		pairs = cps2.SamplePairs()
	}

	logger := helpers.NewLoggerTo(stderr, "cps2key")
	logger.SetDebug(*verbose)

	s, err := bv.New(*backend)
	if err != nil {
		logger.Error("creating solver", err)
		return exitSetup
	}
	var opts []cps2.Option
	if *verbose {
		opts = append(opts, cps2.WithLogger(logger))
	}
	rec, err := cps2.NewRecoverer(s, opts...)
	if err != nil {
		_ = s.Close()
		logger.Error("building network", err)
		return exitSetup
	}
	defer rec.Close()

	if err := rec.AddPairs(pairs...); err != nil {
		logger.Error("adding pairs", err)
		return exitSetup
	}
	if *dimacs != "" {
		if err := writeDIMACS(rec, *dimacs); err != nil {
			logger.Error("writing DIMACS", err, *dimacs)
			return exitSetup
		}
		logger.Debug("DIMACS written", *dimacs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	res, err := rec.Recover(ctx)
	if err != nil {
		logger.Error("solving", err)
		return exitSetup
	}
	fmt.Fprintln(stdout, res)
	return exitCode(res, rec, logger)
}

type keyVerifier interface {
	Verify(key cps2.Key) (bool, error)
}

// exitCode maps a result to the process exit status. A key that does not
// reproduce every pair under the reference cipher is a failure.
func exitCode(res *cps2.Result, v keyVerifier, logger *helpers.Logger) int {
	switch res.Status {
	case bv.StatusSat:
		ok, err := v.Verify(res.Key)
		if err != nil {
			logger.Error("verifying recovered key", err, res.Key)
			return exitSetup
		}
		if !ok {
			logger.Error("verifying recovered key", errKeyMismatch, res.Key)
			return exitSetup
		}
		return exitSat
	case bv.StatusUnsat:
		return exitUnsat
	default:
		return exitUnknown
	}
}

func writeDIMACS(rec *cps2.Recoverer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rec.WriteDIMACS(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
