// Package datehandler is the public entry point: it wires configuration into
// an orchestrator and returns the date facade.
package datehandler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tiger/datefallback/internal/config"
	"github.com/tiger/datefallback/internal/facade"
	"github.com/tiger/datefallback/internal/runtime/environment"
	"github.com/tiger/datefallback/internal/runtime/localedata"
	"github.com/tiger/datefallback/internal/runtime/shim"
	"github.com/tiger/datefallback/internal/runtime/strategy/bootstrap"
	"github.com/tiger/datefallback/internal/runtime/strategy/contracts"
)

// Facade contracts.
type Facade = facade.Facade
type DayInfo = facade.DayInfo

// Strategy contracts.
type Strategy = contracts.Strategy
type LocaleFormatter = contracts.LocaleFormatter
type Variant = contracts.Variant
type ProbeResult = contracts.ProbeResult

// Configuration.
type Config = config.Config

// Handler bundles the wired runtime.
type Handler struct {
	Config       Config
	Namespace    *shim.Namespace
	Orchestrator *bootstrap.Orchestrator
	Facade       *Facade
}

// New builds a handler from cfg. Probing happens lazily on first use.
func New(cfg Config, logger *zap.Logger) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("datehandler config: %w", err)
	}
	ns := NamespaceFor(cfg.Globals)
	env := environment.New(ns)
	env.Locale = cfg.Locale
	env.TimeZone = cfg.TimeZone
	env = env.WithDisabled(cfg.DisabledStrategies...)

	o, err := bootstrap.New(bootstrap.Options{
		Env:            env,
		Parallel:       cfg.ParallelProbe,
		ShimGlobal:     cfg.Shim.Global,
		ShimOperations: cfg.Shim.RequiredOperations,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	return &Handler{
		Config:       cfg,
		Namespace:    ns,
		Orchestrator: o,
		Facade:       facade.New(o),
	}, nil
}

// Default builds a handler from the built-in configuration.
func Default() *Handler {
	h, err := New(config.Default(), nil)
	if err != nil {
		panic(err)
	}
	return h
}

// NamespaceFor builds the host namespace described by globals. A present but
// incomplete Cldr global only exposes load.
func NamespaceFor(globals config.Globals) *shim.Namespace {
	ns := shim.NewNamespace()
	if !globals.Cldr.Present {
		return ns
	}
	obj := localedata.NewStore().Object()
	if !globals.Cldr.Complete {
		obj = shim.Object{"load": obj["load"]}
	}
	ns.Define(localedata.GlobalName, obj)
	return ns
}
