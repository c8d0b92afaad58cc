package app

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

func validOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrUsage, format)
	}
}

func (a *Application) writeJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

func (a *Application) writeYAML(v any) error {
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func (a *Application) writeTable(data pterm.TableData) error {
	return renderTable(a.out, data)
}

func renderTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// write renders v as json or yaml, or calls table for the table format.
func (a *Application) write(format string, v any, table func() pterm.TableData) error {
	switch format {
	case OutputJSON:
		return a.writeJSON(v)
	case OutputYAML:
		return a.writeYAML(v)
	default:
		return a.writeTable(table())
	}
}
