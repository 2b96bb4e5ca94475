package response

import (
	"fmt"
	"log/slog"
)

// Handler updates offsets or morph values from one tick's input. It must not
// write to the host; that happens in the push phase.
type Handler interface {
	Name() string
	Update(in *Input) error
}

// Pusher is a handler that owns host outputs of its own, such as morphs.
type Pusher interface {
	Push() (int, error)
}

// Resetter clears whatever a handler has contributed.
type Resetter interface {
	Reset()
}

// Runner runs handlers in order, isolating each from the others' failures.
type Runner struct {
	handlers []Handler
	logger   *slog.Logger
	failures map[string]int
}

func NewRunner(logger *slog.Logger, handlers ...Handler) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{handlers: handlers, logger: logger, failures: make(map[string]int)}
}

func (r *Runner) Add(h Handler)            { r.handlers = append(r.handlers, h) }
func (r *Runner) Handlers() []Handler      { return r.handlers }
func (r *Runner) Failures(name string) int { return r.failures[name] }

// Run updates every handler. A failing or panicking handler is logged and
// skipped; the returned errors are all *HandlerError.
func (r *Runner) Run(in *Input) []error {
	var errs []error
	for _, h := range r.handlers {
		if err := r.update(h, in); err != nil {
			r.failures[h.Name()]++
			r.logger.Warn("response handler failed", "handler", h.Name(), "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

func (r *Runner) update(h Handler, in *Input) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &HandlerError{Handler: h.Name(), Wrapped: fmt.Errorf("panic: %v", p)}
		}
	}()
	if err := h.Update(in); err != nil {
		return &HandlerError{Handler: h.Name(), Wrapped: err}
	}
	return nil
}

// Push writes every Pusher's outputs and returns the total host writes.
func (r *Runner) Push() (int, []error) {
	total := 0
	var errs []error
	for _, h := range r.handlers {
		p, ok := h.(Pusher)
		if !ok {
			continue
		}
		n, err := p.Push()
		total += n
		if err != nil {
			errs = append(errs, &HandlerError{Handler: h.Name(), Wrapped: err})
		}
	}
	return total, errs
}

// Reset resets every handler that supports it.
func (r *Runner) Reset() {
	for _, h := range r.handlers {
		if rs, ok := h.(Resetter); ok {
			rs.Reset()
		}
	}
}
