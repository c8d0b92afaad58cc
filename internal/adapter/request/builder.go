package request

import (
	"maps"

	"github.com/ollama/ollama/api"

	"github.com/thushan/ollafree/internal/config"
	"github.com/thushan/ollafree/internal/core/domain"
	"github.com/thushan/ollafree/internal/core/ports"
)

// Defaults are used for the core options the caller leaves unset.
type Defaults struct {
	Temperature float64
	TopP        float64
	NumPredict  int
}

func DefaultsFromConfig(cfg config.GenerationConfig) Defaults {
	d := Defaults{
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		NumPredict:  cfg.NumPredict,
	}
	if d.NumPredict == 0 {
		d.NumPredict = config.DefaultNumPredict
	}
	return d
}

type Builder struct {
	directory ports.ModelDirectory
	defaults  Defaults
}

func NewBuilder(directory ports.ModelDirectory, defaults Defaults) *Builder {
	return &Builder{
		directory: directory,
		defaults:  defaults,
	}
}

// Build validates model against the directory and assembles the payload.
// temperature, top_p, stop and num_predict are always present; the
// passthrough options only when the caller set them.
func (b *Builder) Build(model, prompt string, opts domain.Options) (domain.GenerationRequest, error) {
	if _, err := b.directory.GetModelInfo(model); err != nil {
		return domain.GenerationRequest{}, err
	}

	stop := opts.Stop
	if stop == nil {
		stop = []string{}
	}

	options := map[string]any{
		domain.OptionTemperature: valueOr(opts.Temperature, b.defaults.Temperature),
		domain.OptionTopP:        valueOr(opts.TopP, b.defaults.TopP),
		domain.OptionStop:        stop,
		domain.OptionNumPredict:  valueOr(opts.NumPredict, b.defaults.NumPredict),
	}

	if opts.RepeatPenalty != nil {
		options[domain.OptionRepeatPenalty] = *opts.RepeatPenalty
	}
	if opts.Seed != nil {
		options[domain.OptionSeed] = *opts.Seed
	}
	if opts.TFSZ != nil {
		options[domain.OptionTFSZ] = *opts.TFSZ
	}
	if opts.Mirostat != nil {
		options[domain.OptionMirostat] = *opts.Mirostat
	}

	return domain.GenerationRequest{
		Model:   model,
		Prompt:  prompt,
		Options: options,
	}, nil
}

// ToAPI converts req into the Ollama client payload. Stream is always set
// explicitly since the server streams when it is omitted.
func ToAPI(req domain.GenerationRequest) *api.GenerateRequest {
	stream := req.Stream
	return &api.GenerateRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Stream:  &stream,
		Options: maps.Clone(req.Options),
	}
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
