package taskrouter

import "github.com/gin-gonic/gin"

// Register mounts the task routes on the API group.
func Register(apiBase *gin.RouterGroup) {
	apiBase.GET("/tasks", listTasks)
}
