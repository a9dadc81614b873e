// Package script runs Lua edit scripts against a buffer handler.
//
// Scripts see a global "buf" table bound to one engine.Handler:
//
//	buf.name()                    -> file name
//	buf.line_count()              -> number of lines
//	buf.lines(start, count)       -> {line, ...}
//	buf.search(pattern)           -> {{line=, col=}, ...}
//	buf.edit(start, end, {lines}) -> replaces [start, end)
//	buf.replace(pattern, new)     -> replaces every occurrence
//	buf.undo(), buf.redo()        -> true if something changed
//	buf.copy({lines}), buf.paste()
//
// Line and column numbers are zero based, as everywhere else in the engine.
// Only the base, table, string and math libraries are available.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/sourcebuf/internal/engine"
	"github.com/dshills/sourcebuf/internal/logging"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// State is a sandboxed Lua state bound to a handler.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes callers.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	handler *engine.Handler
	output  io.Writer
	logger  *logging.Logger
	timeout time.Duration
	closed  bool
}

// Option configures a State.
type Option func(*State)

// WithOutput sets where print writes. The default discards output.
func WithOutput(w io.Writer) Option {
	return func(s *State) {
		if w != nil {
			s.output = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout sets the deadline applied to each Run. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a Lua state whose buf table drives h.
func NewState(h *engine.Handler, opts ...Option) *State {
	s := &State{
		handler: h,
		output:  io.Discard,
		logger:  logging.Null(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("script")

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	s.L = L

	L.SetGlobal("print", L.NewFunction(s.print))
	registerBuffer(L, h)
	return s
}

// openSafeLibraries opens only the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// print writes its arguments tab separated, like Lua's print.
func (s *State) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(s.output, strings.Join(parts, "\t"))
	return 0
}

// Run executes code. Errors raised by the script or by buffer operations
// are returned; the handler keeps every change made before the error.
func (s *State) Run(ctx context.Context, code string) error {
	return s.run(ctx, "<string>", func() error { return s.L.DoString(code) })
}

// RunFile executes the script at path.
func (s *State) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fn, err := s.compile(path, string(data))
	if err != nil {
		return err
	}
	return s.run(ctx, path, func() error {
		s.L.Push(fn)
		return s.L.PCall(0, lua.MultRet, nil)
	})
}

func (s *State) compile(name, code string) (*lua.LFunction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStateClosed
	}
	return s.L.Load(strings.NewReader(code), name)
}

func (s *State) run(ctx context.Context, name string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	start := time.Now()
	err = fn()
	s.L.SetTop(0)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%s: %w", name, ErrExecutionTimeout)
		} else if ctx.Err() != nil {
			err = fmt.Errorf("%s: %w", name, ctx.Err())
		} else {
			err = fmt.Errorf("%s: %w", name, err)
		}
		s.logger.Warn("script failed: %v", err)
		return err
	}
	s.logger.Debug("ran %s in %s", name, time.Since(start))
	return nil
}

// Global returns a global variable value.
func (s *State) Global(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Further runs return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
