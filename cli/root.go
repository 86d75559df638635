package cli

import (
	"github.com/compozy/gantt/pkg/config"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gantt",
		Short:         "Serve Gantt task records read from a CSV file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return config.ManagerFromContext(cmd.Context()).Close(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "gantt.yaml", "Path to the YAML configuration file")
	flags.String("env-file", ".env", "Path to the environment file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")

	root.AddCommand(
		ServeCmd(),
		TasksCmd(),
		ConfigCmd(),
		VersionCmd(),
	)

	return root
}

// addDataFlags registers the flags that locate and describe the CSV source.
func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "data/data.csv", "Path to the CSV task source")
	cmd.Flags().String("name-col", "Tasks", "Header of the task name column")
	cmd.Flags().String("start-col", "Start Date", "Header of the start timestamp column")
	cmd.Flags().String("end-col", "Completion", "Header of the end timestamp column")
	cmd.Flags().String("color-col", "Color", "Header of the color column")
}
