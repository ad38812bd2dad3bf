package script

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"log/slog"
	"reflect"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// HostPackage is the import path under which scripts reach engine helpers.
const HostPackage = "oxyframe/host"

// ErrNoUpdateHook is returned when a script's OnUpdate has the wrong signature.
var ErrNoUpdateHook = errors.New("script: OnUpdate must have signature func(uint64, float64)")

type updateFunc func(id uint64, dt float64)

// compiled is the cached result of interpreting one Script.
type compiled struct {
	onUpdate updateFunc
	err      error
}

// YaegiEnvironment interprets scripts with yaegi. Each script gets its own interpreter,
// compiled on first use and cached for the lifetime of the environment.
type YaegiEnvironment struct {
	logger  *slog.Logger
	exports interp.Exports

	mu    sync.Mutex
	cache map[Script]*compiled
}

var _ Environment = &YaegiEnvironment{}

// NewYaegiEnvironment creates an environment that exposes the standard library and the
// host package to scripts.
//
// Parameters:
//   - options: functional options for the environment
//
// Returns:
//   - *YaegiEnvironment: the new environment
func NewYaegiEnvironment(options ...YaegiEnvironmentBuilderOption) *YaegiEnvironment {
	e := &YaegiEnvironment{
		exports: interp.Exports{},
		cache:   make(map[Script]*compiled),
	}
	for _, opt := range options {
		opt(e)
	}
	e.logger = logging.Or(e.logger)
	return e
}

func (e *YaegiEnvironment) PostUpdate(obj Scripted, dt float32) error {
	s := obj.Script()
	if s == nil || !s.HasUpdateHook() {
		return nil
	}
	c := e.compile(s)
	if c.err != nil {
		return c.err
	}
	return invoke(s, c.onUpdate, obj.ID(), dt)
}

// Compile interprets s ahead of its first update so errors surface early.
//
// Parameters:
//   - s: the script to compile
//
// Returns:
//   - error: the compile error, if any
func (e *YaegiEnvironment) Compile(s Script) error {
	return e.compile(s).err
}

// Forget drops the cached interpreter for s, so the next PostUpdate recompiles it.
func (e *YaegiEnvironment) Forget(s Script) {
	e.mu.Lock()
	delete(e.cache, s)
	e.mu.Unlock()
}

func (e *YaegiEnvironment) compile(s Script) *compiled {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.cache[s]; ok {
		return c
	}
	c := &compiled{}
	c.onUpdate, c.err = e.load(s)
	if c.err != nil {
		e.logger.Warn("script compile failed", "script", s.Name(), "error", c.err)
	} else {
		e.logger.Debug("script compiled", "script", s.Name())
	}
	e.cache[s] = c
	return c
}

func (e *YaegiEnvironment) load(s Script) (updateFunc, error) {
	file, err := parser.ParseFile(token.NewFileSet(), s.Name(), s.Source(), parser.PackageClauseOnly)
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", s.Name(), err)
	}
	pkg := file.Name.Name

	in := interp.New(interp.Options{})
	if err := in.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("script %q: use stdlib: %w", s.Name(), err)
	}
	if err := in.Use(e.hostSymbols(s)); err != nil {
		return nil, fmt.Errorf("script %q: use host: %w", s.Name(), err)
	}
	if len(e.exports) > 0 {
		if err := in.Use(e.exports); err != nil {
			return nil, fmt.Errorf("script %q: use exports: %w", s.Name(), err)
		}
	}
	if _, err := in.Eval(s.Source()); err != nil {
		return nil, fmt.Errorf("script %q: %w", s.Name(), err)
	}
	v, err := in.Eval(pkg + ".OnUpdate")
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", s.Name(), err)
	}
	fn, ok := v.Interface().(func(uint64, float64))
	if !ok {
		return nil, fmt.Errorf("script %q: %w", s.Name(), ErrNoUpdateHook)
	}
	return fn, nil
}

// hostSymbols builds the host package seen by s.
func (e *YaegiEnvironment) hostSymbols(s Script) interp.Exports {
	logger := e.logger.With("script", s.Name())
	return interp.Exports{
		HostPackage + "/host": map[string]reflect.Value{
			"Log": reflect.ValueOf(func(msg string) {
				logger.Info(msg)
			}),
		},
	}
}

func invoke(s Script, fn updateFunc, id uint64, dt float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script %q: panic in OnUpdate: %v", s.Name(), r)
		}
	}()
	fn(id, float64(dt))
	return nil
}
