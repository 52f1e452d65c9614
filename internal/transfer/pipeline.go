// Package transfer implements the export and import pipelines. A pipeline is
// an ordered list of named steps driven over one shared mutable context;
// the first step error short-circuits the chain and surfaces as a typed
// failure carrying the failing step's message.
package transfer

import (
	"context"
	"fmt"

	"github.com/arghyam/sunbird-android-sdk/internal/metrics"
	"github.com/charmbracelet/log"
)

// Failure codes reported by pipeline runs.
const (
	CodeExportFailed = "EXPORT_FAILED"
	CodeImportFailed = "IMPORT_FAILED"
)

// TransferError is the terminal failure of a pipeline run.
type TransferError struct {
	Code    string
	Message string
	Step    string
}

func (e *TransferError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (step %s)", e.Code, e.Message, e.Step)
}

// Step is one unit of work in a chain. Terminal marks the step that produces
// the operation's success response; a chain whose last step is not terminal
// is malformed and fails rather than succeeding by accident.
type Step struct {
	Name     string
	Terminal bool
	Run      func(ctx context.Context, tc *Context) error
}

// Chain is an ordered pipeline bound to one operation.
type Chain struct {
	Operation   string
	FailureCode string
	Steps       []Step
}

// Execute drives the steps in order. Steps run strictly sequentially; there
// is no rollback, a failing step leaves its side effects in place and the
// remaining steps never run.
func (c Chain) Execute(ctx context.Context, tc *Context) error {
	var last *Step
	for i := range c.Steps {
		step := &c.Steps[i]
		tc.Visited = append(tc.Visited, step.Name)
		if err := step.Run(ctx, tc); err != nil {
			metrics.PipelineRuns.WithLabelValues(c.Operation, "failure").Inc()
			log.Error("pipeline step failed", "operation", c.Operation, "step", step.Name, "err", err)
			return &TransferError{Code: c.FailureCode, Message: err.Error(), Step: step.Name}
		}
		last = step
	}
	if last == nil || !last.Terminal {
		metrics.PipelineRuns.WithLabelValues(c.Operation, "failure").Inc()
		return &TransferError{Code: c.FailureCode, Message: "operation failed"}
	}
	metrics.PipelineRuns.WithLabelValues(c.Operation, "success").Inc()
	return nil
}
