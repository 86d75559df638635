package router

import (
	"encoding/json"
	"net/http"

	"github.com/compozy/gantt/engine/infra/server/appstate"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
)

const problemContentType = "application/problem+json"

// Problem is the error envelope written for every failed request.
type Problem struct {
	Status int
	Title  string
	Detail string
	Code   string
}

// ProblemDocument documents the serialized form of a Problem.
type ProblemDocument struct {
	Status  int    `json:"status"            example:"500"`
	Error   string `json:"error"             example:"Internal Server Error"`
	Details string `json:"details,omitempty" example:"missing CSV file at data/data.csv"`
	Message string `json:"message,omitempty" example:"missing CSV file at data/data.csv"`
	Code    string `json:"code,omitempty"    example:"SOURCE_NOT_FOUND"`
}

func normalizeProblem(problem *Problem) *Problem {
	if problem == nil {
		problem = &Problem{}
	}
	if problem.Status == 0 {
		problem.Status = http.StatusInternalServerError
	}
	if problem.Title == "" {
		problem.Title = http.StatusText(problem.Status)
	}
	return problem
}

func buildProblemBody(problem *Problem) ProblemDocument {
	return ProblemDocument{
		Status:  problem.Status,
		Error:   problem.Title,
		Details: problem.Detail,
		Message: problem.Detail,
		Code:    problem.Code,
	}
}

// RespondProblem writes the problem as application/problem+json and aborts the chain.
func RespondProblem(c *gin.Context, problem *Problem) {
	prepared := normalizeProblem(problem)
	writeProblemResponse(c, prepared, buildProblemBody(prepared))
}

// RespondProblemWithCode writes a problem response embedding a code and detail.
func RespondProblemWithCode(c *gin.Context, status int, code string, detail string) {
	RespondProblem(c, &Problem{
		Status: status,
		Title:  http.StatusText(status),
		Detail: detail,
		Code:   code,
	})
}

// GetAppState returns the application state or writes a 500 when it is missing.
func GetAppState(c *gin.Context) *appstate.State {
	state, err := appstate.GetState(c.Request.Context())
	if err != nil {
		RespondProblemWithCode(c, http.StatusInternalServerError, ErrInternalCode, ErrMsgAppStateNotInitialized)
		return nil
	}
	return state
}

func writeProblemResponse(c *gin.Context, problem *Problem, body ProblemDocument) {
	logProblem(c, problem)
	payload, err := json.Marshal(body)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to marshal problem", "err", err)
		fallback := []byte(`{"status":500,"error":"Internal Server Error"}`)
		c.Data(http.StatusInternalServerError, problemContentType, fallback)
		c.Abort()
		return
	}
	c.Data(problem.Status, problemContentType, payload)
	c.Abort()
}

func logProblem(c *gin.Context, problem *Problem) {
	log := logger.FromContext(c.Request.Context())
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	fields := []any{
		"status", problem.Status,
		"title", problem.Title,
		"detail", problem.Detail,
		"route", route,
		"path", c.Request.URL.Path,
	}
	if problem.Code != "" {
		fields = append(fields, "code", problem.Code)
	}
	if requestID := c.Writer.Header().Get("X-Request-ID"); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if problem.Status >= http.StatusInternalServerError {
		log.Error("request failed", fields...)
		return
	}
	log.Warn("request failed", fields...)
}
