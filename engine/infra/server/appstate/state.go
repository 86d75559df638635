package appstate

import (
	"context"
	"fmt"

	taskuc "github.com/compozy/gantt/engine/task/uc"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

type contextKey string

const (
	stateKey contextKey = "app_state"
)

// State carries the process-wide dependencies handlers need.
type State struct {
	FS            afero.Fs
	LoaderMetrics *taskuc.Metrics
}

func NewState(fs afero.Fs, loaderMetrics *taskuc.Metrics) (*State, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem is required")
	}
	return &State{FS: fs, LoaderMetrics: loaderMetrics}, nil
}

func WithState(ctx context.Context, state *State) context.Context {
	return context.WithValue(ctx, stateKey, state)
}

func GetState(ctx context.Context) (*State, error) {
	state, ok := ctx.Value(stateKey).(*State)
	if !ok || state == nil {
		return nil, fmt.Errorf("app state not found in context")
	}
	return state, nil
}

func StateMiddleware(state *State) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithState(c.Request.Context(), state)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
