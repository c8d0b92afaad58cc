package dispatch

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/thushan/ollafree/internal/adapter/request"
	"github.com/thushan/ollafree/internal/adapter/stats"
	"github.com/thushan/ollafree/internal/core/domain"
	"github.com/thushan/ollafree/internal/core/ports"
	"github.com/thushan/ollafree/internal/logger"
	"github.com/thushan/ollafree/internal/util"
)

// errConsumerStopped aborts an in-flight Generate when the range loop over
// a stream exits early. It never reaches the caller.
var errConsumerStopped = errors.New("stream consumer stopped")

// Dispatcher sends a generation request to the servers hosting a model,
// one at a time in the orderer's order, until one succeeds. Every call
// starts from a fresh order; nothing about earlier failures is remembered.
type Dispatcher struct {
	directory ports.ModelDirectory
	builder   *request.Builder
	clients   ports.ClientFactory
	orderer   ports.CandidateOrderer
	stats     ports.StatsCollector
	logger    logger.StyledLogger
}

func NewDispatcher(
	directory ports.ModelDirectory,
	builder *request.Builder,
	clients ports.ClientFactory,
	orderer ports.CandidateOrderer,
	collector ports.StatsCollector,
	log logger.StyledLogger,
) *Dispatcher {
	if log == nil {
		log = logger.NewDiscard()
	}
	if collector == nil {
		collector = stats.NewCollector(log)
	}
	return &Dispatcher{
		directory: directory,
		builder:   builder,
		clients:   clients,
		orderer:   orderer,
		stats:     collector,
		logger:    log,
	}
}

// Chat returns the full response from the first server that answers.
func (d *Dispatcher) Chat(ctx context.Context, model, prompt string, opts domain.Options) (string, error) {
	candidates, req, err := d.prepare(model, prompt, opts, false)
	if err != nil {
		return "", err
	}

	log := d.logger.With("request_id", util.GenerateRequestID())

	var lastErr error
	attempts := 0
	for i, server := range candidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		attempts++

		start := time.Now()
		var sb strings.Builder
		err := d.generate(ctx, server.URL, req, func(r api.GenerateResponse) error {
			sb.WriteString(r.Response)
			return nil
		})
		if err != nil && ctx.Err() != nil {
			// the caller gave up, the server did not fail
			log.Debug("Dispatch cancelled", "model", model, "server", server.URL, "attempt", attempts)
			return "", ctx.Err()
		}
		d.stats.RecordAttempt(model, server.URL, err == nil, time.Since(start))

		if err == nil {
			log.InfoWithModel("Response received for", model, "server", server.URL, "attempt", attempts)
			return sb.String(), nil
		}

		lastErr = err
		logAttemptFailure(log, model, server.URL, err, attempts, len(candidates)-i-1, time.Since(start))
	}

	d.stats.RecordExhausted(model)
	log.Warn("All servers failed", "model", model, "attempts", attempts)
	return "", &domain.AllServersFailedError{Model: model, Attempts: attempts, LastErr: lastErr}
}

// StreamChat returns a single-use sequence of response chunks. Nothing is
// sent until the sequence is ranged over. Failures before the first chunk
// move on to the next server; a failure after output has been yielded ends
// the sequence with a *domain.PartialStreamError. Any error is the final
// element. Breaking out of the loop cancels the in-flight request.
func (d *Dispatcher) StreamChat(ctx context.Context, model, prompt string, opts domain.Options) iter.Seq2[string, error] {
	var used atomic.Bool

	return func(yield func(string, error) bool) {
		if !used.CompareAndSwap(false, true) {
			return
		}

		candidates, req, err := d.prepare(model, prompt, opts, true)
		if err != nil {
			yield("", err)
			return
		}

		log := d.logger.With("request_id", util.GenerateRequestID())

		var lastErr error
		attempts := 0
		for i, server := range candidates {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			attempts++

			callCtx, cancel := context.WithCancel(ctx)
			start := time.Now()
			chunks := 0
			stopped := false

			err := d.generate(callCtx, server.URL, req, func(r api.GenerateResponse) error {
				if r.Response == "" {
					return nil
				}
				chunks++
				if !yield(r.Response, nil) {
					stopped = true
					return errConsumerStopped
				}
				return nil
			})
			cancel()

			if stopped {
				d.stats.RecordAttempt(model, server.URL, true, time.Since(start))
				return
			}
			if err != nil && ctx.Err() != nil {
				log.Debug("Stream cancelled", "model", model, "server", server.URL, "chunks", chunks)
				yield("", ctx.Err())
				return
			}

			d.stats.RecordAttempt(model, server.URL, err == nil, time.Since(start))
			if err == nil {
				log.InfoWithModel("Stream completed for", model, "server", server.URL, "chunks", chunks)
				return
			}

			if chunks > 0 {
				log.WarnWithServer("Stream broke after partial output from", server.URL,
					"model", model, "chunks", chunks, "attempt", attempts, "error", err)
				yield("", &domain.PartialStreamError{Model: model, Address: server.URL, Chunks: chunks, Err: err})
				return
			}

			lastErr = err
			logAttemptFailure(log, model, server.URL, err, attempts, len(candidates)-i-1, time.Since(start))
		}

		d.stats.RecordExhausted(model)
		log.Warn("All servers failed", "model", model, "attempts", attempts)
		yield("", &domain.AllServersFailedError{Model: model, Attempts: attempts, LastErr: lastErr})
	}
}

// GenerateRequestPayload builds the request that would be sent, without
// contacting any server.
func (d *Dispatcher) GenerateRequestPayload(model, prompt string, opts domain.Options) (domain.GenerationRequest, error) {
	return d.builder.Build(model, prompt, opts)
}

func (d *Dispatcher) prepare(model, prompt string, opts domain.Options, stream bool) ([]domain.ServerDescriptor, domain.GenerationRequest, error) {
	servers := d.directory.GetModelServers(model)
	if len(servers) == 0 {
		return nil, domain.GenerationRequest{}, &domain.NoServersAvailableError{Model: model}
	}

	req, err := d.builder.Build(model, prompt, opts)
	if err != nil {
		return nil, domain.GenerationRequest{}, err
	}
	req.Stream = stream

	return d.orderer.Order(servers), req, nil
}

func (d *Dispatcher) generate(ctx context.Context, address string, req domain.GenerationRequest, fn api.GenerateResponseFunc) error {
	client, err := d.clients.ForServer(address)
	if err != nil {
		return err
	}
	return client.Generate(ctx, request.ToAPI(req), fn)
}

func logAttemptFailure(log logger.StyledLogger, model, address string, err error, attempt, remaining int, elapsed time.Duration) {
	log.WarnWithContext("Server failed, trying next", address, logger.LogContext{
		UserArgs:     []any{"model", model, "remaining", remaining, "error", err},
		DetailedArgs: []any{"attempt", attempt, "elapsed", elapsed},
	})
}
