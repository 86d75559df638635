package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/compozy/gantt/pkg/config"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	var (
		format      string
		showSources bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show configuration values and their sources",
		Long: `Display the resolved configuration.
With --sources each value is tagged with the layer (cli, yaml, env or default) that set it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := config.ManagerFromContext(cmd.Context())
			return formatConfigOutput(cmd.OutOrStdout(), manager.Get(), manager.Service, format, showSources)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (json, yaml, table)")
	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show configuration sources")
	addDataFlags(cmd)

	return cmd
}

func formatConfigOutput(
	w io.Writer,
	cfg *config.Config,
	service config.Service,
	format string,
	showSources bool,
) error {
	flat, err := flattenConfig(cfg)
	if err != nil {
		return err
	}
	var sources map[string]config.SourceType
	if showSources {
		sources = make(map[string]config.SourceType, len(flat))
		for key := range flat {
			sources[key] = service.GetSource(key)
		}
	}
	switch format {
	case "json":
		return outputJSON(w, flat, sources)
	case "yaml":
		return outputYAML(w, flat, sources)
	case "table":
		return outputTable(w, flat, sources)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// flattenConfig returns the configuration keyed by dotted koanf path with durations rendered as text.
func flattenConfig(cfg *config.Config) (map[string]any, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to flatten configuration: %w", err)
	}
	flat := k.All()
	for key, value := range flat {
		if d, ok := value.(time.Duration); ok {
			flat[key] = d.String()
		}
	}
	return flat, nil
}

func nested(flat map[string]any, sources map[string]config.SourceType) (map[string]any, error) {
	k := koanf.New(".")
	for key, value := range flat {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to build configuration tree: %w", err)
		}
	}
	output := map[string]any{"config": k.Raw()}
	if len(sources) > 0 {
		output["sources"] = sources
	}
	return output, nil
}

func outputJSON(w io.Writer, flat map[string]any, sources map[string]config.SourceType) error {
	output, err := nested(flat, sources)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputYAML(w io.Writer, flat map[string]any, sources map[string]config.SourceType) error {
	output, err := nested(flat, sources)
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

func outputTable(w io.Writer, flat map[string]any, sources map[string]config.SourceType) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if sources != nil {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
		fmt.Fprintln(tw, "---\t-----\t------")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
		fmt.Fprintln(tw, "---\t-----")
	}
	for _, key := range keys {
		if sources != nil {
			fmt.Fprintf(tw, "%s\t%v\t%s\n", key, flat[key], sourceLabel(key, sources[key]))
		} else {
			fmt.Fprintf(tw, "%s\t%v\n", key, flat[key])
		}
	}
	return tw.Flush()
}

// sourceLabel names the environment variable behind env-sourced keys.
func sourceLabel(key string, source config.SourceType) string {
	if source != config.SourceEnv {
		return string(source)
	}
	if envVar := config.GetEnvVarForConfigPath(key); envVar != "" {
		return fmt.Sprintf("%s (%s)", source, envVar)
	}
	return string(source)
}
