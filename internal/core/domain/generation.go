package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

const (
	OptionTemperature   = "temperature"
	OptionTopP          = "top_p"
	OptionStop          = "stop"
	OptionNumPredict    = "num_predict"
	OptionRepeatPenalty = "repeat_penalty"
	OptionSeed          = "seed"
	OptionTFSZ          = "tfs_z"
	OptionMirostat      = "mirostat"

	maxExactFloatInt = 1 << 53
)

// Options are the caller supplied generation options. A nil field means
// "not supplied": the core four fall back to defaults, the passthrough
// options are left out of the request.
type Options struct {
	Temperature *float64
	TopP        *float64
	Stop        []string
	NumPredict  *int

	RepeatPenalty *float64
	Seed          *int
	TFSZ          *float64
	Mirostat      *int
}

// GenerationRequest is the normalised payload sent to one server.
type GenerationRequest struct {
	Model   string         `json:"model" yaml:"model"`
	Prompt  string         `json:"prompt" yaml:"prompt"`
	Options map[string]any `json:"options" yaml:"options"`
	Stream  bool           `json:"stream,omitempty" yaml:"stream,omitempty"`
}

// OptionsFromMap builds Options from loosely typed values such as parsed
// command line flags. Keys it does not recognise are ignored.
func OptionsFromMap(values map[string]any) (Options, error) {
	var opts Options
	for key, value := range values {
		var err error
		switch key {
		case OptionTemperature:
			opts.Temperature, err = toFloat(key, value)
		case OptionTopP:
			opts.TopP, err = toFloat(key, value)
		case OptionNumPredict:
			opts.NumPredict, err = toInt(key, value)
		case OptionRepeatPenalty:
			opts.RepeatPenalty, err = toFloat(key, value)
		case OptionSeed:
			opts.Seed, err = toInt(key, value)
		case OptionTFSZ:
			opts.TFSZ, err = toFloat(key, value)
		case OptionMirostat:
			opts.Mirostat, err = toInt(key, value)
		case OptionStop:
			opts.Stop, err = toStrings(key, value)
		}
		if err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

func toFloat(key string, value any) (*float64, error) {
	switch v := value.(type) {
	case nil, bool:
		return nil, fmt.Errorf("option %s: unsupported type %T", key, value)
	case string:
		value = strings.TrimSpace(v)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", key, err)
	}
	return &f, nil
}

// toInt accepts whole numbers only, so 1.0 is 1 but 1.5 is an error.
func toInt(key string, value any) (*int, error) {
	f, err := toFloat(key, value)
	if err != nil {
		return nil, err
	}
	if *f != math.Trunc(*f) {
		return nil, fmt.Errorf("option %s: %v is not a whole number", key, value)
	}
	if math.Abs(*f) < maxExactFloatInt {
		i := int(*f)
		return &i, nil
	}
	// beyond float64 precision, seeds mostly
	if str, ok := value.(string); ok {
		value = strings.TrimSpace(str)
	}
	i, err := cast.ToIntE(value)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", key, err)
	}
	return &i, nil
}

func toStrings(key string, value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		// a single stop sequence, which may itself contain spaces
		return []string{v}, nil
	case []any:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return nil, fmt.Errorf("option %s: unsupported element type %T", key, item)
			}
		}
	}
	out, err := cast.ToStringSliceE(value)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", key, err)
	}
	return out, nil
}
