//	@title			Gantt API
//	@version		1.0
//	@description	Read-only access to Gantt task records parsed from a CSV file

//	@BasePath	/api

//	@tag.name			tasks
//	@tag.description	Task records

//	@tag.name			Operations
//	@tag.description	Operational endpoints for monitoring and health

package main

import (
	"fmt"
	"os"

	"github.com/compozy/gantt/cli"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
