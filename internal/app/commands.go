package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/thushan/ollafree/pkg/format"
	"github.com/thushan/ollafree/pkg/ollafree"
)

const optionStop = "stop"

func (a *Application) familiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "families",
		Short:   "List model families (metadata categories)",
		Example: "  ollafree families",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			data := pterm.TableData{{"Family", "Models"}}
			for _, family := range a.client.ListFamilies() {
				data = append(data, []string{family, strconv.Itoa(len(a.client.ListModelsByCategory(family)))})
			}
			return a.writeTable(data)
		},
	}
}

func (a *Application) modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "models [family]",
		Short:   "List model names, optionally for one family",
		Example: "  ollafree models\n  ollafree models llama",
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			family := ""
			if len(args) == 1 {
				family = args[0]
			}
			for _, name := range a.client.ListModels(family) {
				if _, err := fmt.Fprintln(a.out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *Application) infoCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "info <model>",
		Short:   "Show the metadata record for a model",
		Example: "  ollafree info llama3.2:3b\n  ollafree info llama3.2:3b -o yaml",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}

			rec, err := a.client.GetModelInfo(args[0])
			if err != nil {
				return err
			}

			// json and yaml show the full original record, not just the known fields
			var full any = rec
			if len(rec.Raw) > 0 {
				var raw map[string]any
				if err := json.Unmarshal(rec.Raw, &raw); err == nil {
					full = raw
				}
			}

			return a.write(output, full, func() pterm.TableData {
				return pterm.TableData{
					{"Field", "Value"},
					{"Model", rec.Name},
					{"Family", rec.Family},
					{"Category", rec.Category},
					{"Parameters", rec.ParameterSize},
					{"Quantization", rec.Quantization},
					{"Size", format.Size(rec.Size)},
					{"Server", rec.Address},
					{"Location", location(rec.Server().Location)},
					{"Organization", rec.Organization},
					{"Speed", format.TokensPerSecond(rec.TokensPerSecond)},
					{"Last tested", format.LastTested(rec.LastTested, time.Now())},
				}
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func (a *Application) serversCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "servers <model>",
		Short:   "List servers hosting a model",
		Example: "  ollafree servers mistral:7b -o json",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}

			model := args[0]
			servers := a.client.GetModelServers(model)
			if len(servers) == 0 {
				a.logger.Warn("No servers host this model", "model", model)
			}

			return a.write(output, servers, func() pterm.TableData {
				now := time.Now()
				data := pterm.TableData{{"Server", "Location", "Organization", "Speed", "Last tested"}}
				for _, s := range servers {
					data = append(data, []string{
						s.URL,
						location(s.Location),
						s.Organization,
						format.TokensPerSecond(s.Performance.TokensPerSecond),
						format.LastTested(s.Performance.LastTested, now),
					})
				}
				return data
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func (a *Application) payloadCommand() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:     "payload <model> <prompt>",
		Short:   "Print the request that would be sent",
		Example: "  ollafree payload llama3.2:3b \"Hello\" --opt temperature=0.2",
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(_ *cobra.Command, args []string) error {
			opts, err := parseOptions(pairs)
			if err != nil {
				return err
			}

			req, err := a.client.GenerateRequestPayload(args[0], args[1], opts)
			if err != nil {
				return err
			}
			return a.writeJSON(req)
		},
	}
	addOptFlag(cmd, &pairs)
	return cmd
}

func (a *Application) chatCommand() *cobra.Command {
	var pairs []string
	var showStats bool
	cmd := &cobra.Command{
		Use:     "chat <model> <prompt>",
		Short:   "Generate a full response",
		Example: "  ollafree chat llama3.2:3b \"Why is the sky blue?\" --opt num_predict=256",
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseOptions(pairs)
			if err != nil {
				return err
			}

			reply, err := a.client.Chat(cmd.Context(), args[0], args[1], opts)
			a.reportStats(showStats)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, reply)
			return err
		},
	}
	addOptFlag(cmd, &pairs)
	cmd.Flags().BoolVar(&showStats, flagStats, false, "print per-server attempts to stderr afterwards")
	return cmd
}

func (a *Application) streamCommand() *cobra.Command {
	var pairs []string
	var showStats bool
	cmd := &cobra.Command{
		Use:     "stream <model> <prompt>",
		Short:   "Stream a response as it is generated",
		Example: "  ollafree stream mistral:7b \"Tell me a story\"",
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseOptions(pairs)
			if err != nil {
				return err
			}

			err = a.stream(cmd, args[0], args[1], opts)
			a.reportStats(showStats)
			return err
		},
	}
	addOptFlag(cmd, &pairs)
	cmd.Flags().BoolVar(&showStats, flagStats, false, "print per-server attempts to stderr afterwards")
	return cmd
}

func (a *Application) stream(cmd *cobra.Command, model, prompt string, opts ollafree.Options) error {
	for chunk, err := range a.client.StreamChat(cmd.Context(), model, prompt, opts) {
		if err != nil {
			fmt.Fprintln(a.out)
			return err
		}
		if _, err := fmt.Fprint(a.out, chunk); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(a.out)
	return err
}

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, flagOutput, "o", OutputTable, "output format: table, json or yaml")
}

func addOptFlag(cmd *cobra.Command, pairs *[]string) {
	cmd.Flags().StringArrayVar(pairs, flagOpt, nil, "generation option key=value (repeatable, stop accumulates)")
}

// parseOptions turns repeated key=value pairs into Options. stop may repeat
// and accumulates; other keys keep the last value.
func parseOptions(pairs []string) (ollafree.Options, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return ollafree.Options{}, usageErrorf("--%s expects key=value, got %q", flagOpt, pair)
		}
		if key == optionStop {
			stops, _ := values[key].([]string)
			values[key] = append(stops, val)
			continue
		}
		values[key] = val
	}

	opts, err := ollafree.OptionsFromMap(values)
	if err != nil {
		return ollafree.Options{}, usageErrorf("%v", err)
	}
	return opts, nil
}

// reportStats logs a dispatch summary and, when show is set, writes the
// per-server breakdown to errOut.
func (a *Application) reportStats(show bool) {
	stats := a.client.Stats()
	a.logger.Debug("Dispatch stats",
		"attempts", stats.TotalAttempts,
		"success_rate", format.SuccessRate(stats.TotalSuccesses, stats.TotalAttempts),
		"avg_latency", format.Latency(stats.AverageLatencyMs))

	if !show {
		return
	}

	data := pterm.TableData{{"Server", "Attempts", "Successes", "Failures", "Avg latency"}}
	for _, address := range a.client.AttemptedServers() {
		s := stats.Servers[address]
		data = append(data, []string{
			address,
			strconv.FormatInt(s.Attempts, 10),
			strconv.FormatInt(s.Successes, 10),
			strconv.FormatInt(s.Failures, 10),
			format.Latency(s.AverageLatencyMs),
		})
	}
	if err := renderTable(a.errOut, data); err != nil {
		a.logger.Warn("Failed to render stats", "error", err)
	}
}

func location(l ollafree.Location) string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.Country != "":
		return l.Country
	default:
		return l.City
	}
}
