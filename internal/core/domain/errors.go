package domain

import (
	"errors"
	"fmt"
)

var (
	ErrModelNotFound      = errors.New("model not found")
	ErrServerNotFound     = errors.New("server not found")
	ErrNoServersAvailable = errors.New("no servers available")
	ErrAllServersFailed   = errors.New("all servers failed")
	ErrPartialStream      = errors.New("stream failed after partial output")
)

type ModelNotFoundError struct {
	Model string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model '%s' not found", e.Model)
}

func (e *ModelNotFoundError) Is(target error) bool {
	return target == ErrModelNotFound
}

type ServerNotFoundError struct {
	Model   string
	Address string
}

func (e *ServerNotFoundError) Error() string {
	return fmt.Sprintf("server '%s' not found for model '%s'", e.Address, e.Model)
}

func (e *ServerNotFoundError) Is(target error) bool {
	return target == ErrServerNotFound
}

type NoServersAvailableError struct {
	Model string
}

func (e *NoServersAvailableError) Error() string {
	return fmt.Sprintf("no servers available for model '%s'", e.Model)
}

func (e *NoServersAvailableError) Is(target error) bool {
	return target == ErrNoServersAvailable
}

// AllServersFailedError keeps only the last transport error; earlier ones
// are discarded.
type AllServersFailedError struct {
	LastErr  error
	Model    string
	Attempts int
}

func (e *AllServersFailedError) Error() string {
	return fmt.Sprintf("all servers failed for model '%s' after %d attempts. Last error: %v", e.Model, e.Attempts, e.LastErr)
}

func (e *AllServersFailedError) Is(target error) bool {
	return target == ErrAllServersFailed
}

func (e *AllServersFailedError) Unwrap() error {
	return e.LastErr
}

// PartialStreamError reports a stream that broke after chunks were already
// delivered to the consumer.
type PartialStreamError struct {
	Err     error
	Model   string
	Address string
	Chunks  int
}

func (e *PartialStreamError) Error() string {
	return fmt.Sprintf("stream from %s for model '%s' failed after %d chunks: %v", e.Address, e.Model, e.Chunks, e.Err)
}

func (e *PartialStreamError) Is(target error) bool {
	return target == ErrPartialStream
}

func (e *PartialStreamError) Unwrap() error {
	return e.Err
}

// MetadataError wraps a fatal problem with a bundled metadata file.
type MetadataError struct {
	Err  error
	File string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata file %s: %v", e.File, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}
