// Package module wires the collect service into the modkit contract
package module

import (
	"corpuspack/internal/adapters/blobstore"
	"corpuspack/internal/modkit"
	"corpuspack/internal/platform/config"
	"corpuspack/internal/platform/logger"
	"corpuspack/internal/services/collect/domain"
	"corpuspack/internal/services/collect/service"
)

// Module owns the collect service and exposes its port
type Module struct {
	log   logger.Logger
	svc   *service.Service
	built modkit.Built
}

// New builds the module from env-backed config plus caller options
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	svc, err := service.New(deps.Log, blobstore.New(), optionsFromConfig(deps.Cfg))
	if err != nil {
		return nil, err
	}

	built := modkit.Build(append([]modkit.Option{
		modkit.WithName("collect"),
		modkit.WithPorts[domain.CollectorPort](svc),
	}, opts...)...)

	return &Module{
		log:   deps.Log.With().Str("component", "collect.module").Logger(),
		svc:   svc,
		built: built,
	}, nil
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports exposes the collector port
func (m *Module) Ports() any { return m.built.Ports }

// optionsFromConfig reads CORE_COLLECT_* overrides on top of the defaults
func optionsFromConfig(cfg config.Conf) service.Options {
	v := cfg.Prefix("CORE_COLLECT_")
	o := service.DefaultOptions()
	o.MaxLines = v.MayInt("MAX_LINES", o.MaxLines)
	o.Threads = v.MayInt("THREADS", o.Threads)
	o.BatchSize = int64(v.MayInt("BATCH_SIZE", int(o.BatchSize)))
	o.MissingRatio = v.MayFloat64("MISSING_RATIO", o.MissingRatio)
	o.CompressionLevel = v.MayInt("COMPRESSION_LEVEL", o.CompressionLevel)
	o.StrictColumns = v.MayBool("STRICT_COLUMNS", o.StrictColumns)
	return o
}
