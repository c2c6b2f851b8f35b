package tokenize

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// request is sent to a worker goroutine. The worker answers on reply
// exactly once.
type request struct {
	source string
	reply  chan<- response
}

type response struct {
	tokens []Token
	err    error
}

// Worker tokenizes scripts in an isolated goroutine. Each call starts its
// own goroutine, hands it the source over a channel and waits for the
// answer; nothing is shared between the caller and the worker besides the
// two messages.
//
// The context is honoured only until the request is handed over. Once the
// worker owns the request the caller waits for the result.
type Worker struct {
	lex    func(string) ([]Token, error)
	roles  Roles
	logger *slog.Logger
}

// NewWorker creates a Worker backed by the script lexer.
func NewWorker(logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		lex:    lex,
		roles:  ScriptRoles(),
		logger: logger.With("component", "tokenize"),
	}
}

// Roles returns the role mapping for the tokens this worker produces.
func (w *Worker) Roles() Roles {
	return w.roles
}

// Tokenize implements Tokenizer.
func (w *Worker) Tokenize(ctx context.Context, source string) ([]Token, error) {
	requests := make(chan request)
	go w.serve(requests)
	defer close(requests)

	reply := make(chan response, 1)
	select {
	case requests <- request{source: source, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	start := time.Now()
	res := <-reply
	if res.err != nil {
		w.logger.Warn("tokenize failed", "bytes", len(source), "error", res.err)
		return nil, res.err
	}

	w.logger.Debug("script tokenized",
		"bytes", len(source),
		"tokens", len(res.tokens),
		"duration", time.Since(start),
	)
	return res.tokens, nil
}

// serve handles requests until the channel is closed.
func (w *Worker) serve(requests <-chan request) {
	for req := range requests {
		req.reply <- w.run(req.source)
	}
}

func (w *Worker) run(source string) (res response) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic in tokenizer", "panic", r, "stack", string(debug.Stack()))
			res = response{err: &Error{Err: fmt.Errorf("tokenizer panic: %v", r)}}
		}
	}()

	tokens, err := w.lex(source)
	return response{tokens: tokens, err: err}
}
