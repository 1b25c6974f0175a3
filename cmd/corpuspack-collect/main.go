// corpuspack-collect compacts a parquet metadata source and its gzip blob
// store into chunked newline-delimited JSON artifacts
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"corpuspack/internal/core/version"
	"corpuspack/internal/modkit"
	mod "corpuspack/internal/modkit/module"
	"corpuspack/internal/platform/config"
	"corpuspack/internal/platform/logger"
	"corpuspack/internal/services/collect/domain"
	collect "corpuspack/internal/services/collect/module"
)

func main() {
	var (
		src      = flag.String("src", "", "parquet source file or directory (required)")
		out      = flag.String("out", "out", "output directory for chunk artifacts")
		maxLines = flag.Int("max-lines", 0, "rows per chunk (0 = configured default)")
		threads  = flag.Int("threads", 0, "worker count (0 = all CPUs)")
		strict   = flag.Bool("strict-columns", false, "fail on unsupported column types")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	log := logger.Get()

	bi := version.Info()
	log.Debug().Str("version", bi.Version).Str("commit", bi.Commit).Msg(bi.Service)

	if *src == "" {
		flag.Usage()
		log.Fatal().Msg("missing -src")
	}

	m, err := collect.New(modkit.Deps{Log: *log, Cfg: config.New()})
	if err != nil {
		log.Fatal().Err(err).Msg("collect module init")
	}
	mod.Register(m.Name(), m.Ports())
	port, ok := mod.PortsAs[domain.CollectorPort](m.Name())
	if !ok {
		log.Fatal().Str("module", m.Name()).Msg("collector port not registered")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRun(ctx, uuid.NewString(), *src)

	start := time.Now()
	report, err := port.Run(ctx, domain.CollectRequest{
		Source:        *src,
		OutDir:        *out,
		MaxLines:      *maxLines,
		Threads:       *threads,
		StrictColumns: *strict,
	})
	if err != nil {
		logger.C(ctx).Fatal().Err(err).
			Int("artifacts", len(report.Artifacts)).
			Int64("missing", report.Missing).
			Msg("run failed")
	}

	logger.C(ctx).Info().
		Int("artifacts", len(report.Artifacts)).
		Int64("rows", report.Rows).
		Int64("missing", report.Missing).
		Dur("elapsed", time.Since(start)).
		Msg("run complete")
}
