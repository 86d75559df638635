package taskrouter

import (
	"net/http"

	"github.com/compozy/gantt/engine/infra/server/router"
	"github.com/compozy/gantt/engine/task"
	taskuc "github.com/compozy/gantt/engine/task/uc"
	"github.com/compozy/gantt/pkg/config"
	"github.com/gin-gonic/gin"
)

// listTasks returns every task record parsed from the configured CSV file.
//
//	@Summary		List tasks
//	@Description	Re-read the CSV source and return its records in file order.
//	@Tags			tasks
//	@Produce		json
//	@Success		200	{array}		taskrouter.TaskResponse	"Tasks in source order"
//	@Failure		500	{object}	router.ProblemDocument	"Source missing, unreadable or missing columns"
//	@Router			/api/tasks [get]
func listTasks(c *gin.Context) {
	state := router.GetAppState(c)
	if state == nil {
		return
	}
	ctx := c.Request.Context()
	cfg := config.FromContext(ctx)
	normalizer := task.NewNormalizer(task.SchemaFromConfig(&cfg.Data))
	records, err := taskuc.NewLoadTasks(state.FS, cfg.Data.Path, normalizer, state.LoaderMetrics).Execute(ctx)
	if err != nil {
		respondLoadError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponses(records))
}
