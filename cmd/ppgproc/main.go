// Command ppgproc runs the signal processing worker over stdin/stdout.
// Requests arrive as newline-delimited JSON envelopes and one response
// is written per request, in order.
//
// Usage:
//
//	ppgproc [-debug] < requests.jsonl > responses.jsonl
//
// Example request:
//
//	{"id":1,"type":"processSignal","payload":{"rawSignal":[...],"samplingRate":30}}
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-ppg/pipeline"
	"github.com/cwbudde/algo-ppg/worker"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger, err := buildLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ppgproc: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger.Sugar()); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "ppgproc: %v\n", err)
		os.Exit(1)
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"} // stdout carries responses
	return cfg.Build()
}

func run(ctx context.Context, log *zap.SugaredLogger) error {
	w := worker.New(pipeline.NewProcessor(), log)

	in := make(chan worker.Request)
	out := make(chan worker.Response)

	runErr := make(chan error, 1)
	go func() {
		runErr <- w.Run(ctx, in, out)
		close(out)
	}()

	go func() {
		defer close(in)

		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
		for sc.Scan() {
			line := sc.Bytes()
			if len(line) == 0 {
				continue
			}

			var req worker.Request
			if err := json.Unmarshal(line, &req); err != nil {
				log.Errorw("malformed request line", "error", err)
				continue
			}

			select {
			case in <- req:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.Errorw("stdin read failed", "error", err)
		}
	}()

	enc := json.NewEncoder(os.Stdout)
	for resp := range out {
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	return <-runErr
}
