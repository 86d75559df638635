package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/compozy/gantt/engine/task"
	taskrouter "github.com/compozy/gantt/engine/task/router"
	taskuc "github.com/compozy/gantt/engine/task/uc"
	"github.com/compozy/gantt/pkg/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

// TasksCmd loads the CSV source once and prints the records as JSON.
func TasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print the task records parsed from the CSV source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTasks(cmd, afero.NewOsFs())
		},
	}

	cmd.Flags().Bool("pretty", false, "Indent the JSON output")
	addDataFlags(cmd)

	return cmd
}

func runTasks(cmd *cobra.Command, fs afero.Fs) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	normalizer := task.NewNormalizer(task.SchemaFromConfig(&cfg.Data))
	records, err := taskuc.NewLoadTasks(fs, cfg.Data.Path, normalizer, nil).Execute(ctx)
	if err != nil {
		return err
	}
	out, err := json.Marshal(taskrouter.ToResponses(records))
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	w := cmd.OutOrStdout()
	if cfg.CLI.Pretty {
		out = pretty.Pretty(out)
		if isTerminal(w) {
			out = pretty.Color(out, nil)
		}
		_, err = w.Write(out)
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
