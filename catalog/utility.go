package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/toolbus-dev/toolbus"
)

// Utility returns local tools: arithmetic, clock, echo, and file reading.
func Utility(cfg Config) Service {
	return Service{
		Name: "utility",
		Tools: []toolbus.Tool{
			calculateTool(cfg),
			getTimeTool(cfg),
			echoTool(cfg),
			readFileTool(cfg),
		},
	}
}

type calcInput struct {
	Op string  `json:"op"`
	A  float64 `json:"a"`
	B  float64 `json:"b"`
}

func calculateTool(cfg Config) toolbus.Tool {
	return toolbus.New("calculate", toolbus.Spec[calcInput, map[string]any]{
		Description: "Perform basic arithmetic on two numbers",
		InputSchema: cfg.object(
			toolbus.String("op").Required().Enum("add", "subtract", "multiply", "divide").Desc("Operation to perform"),
			toolbus.Number("a").Required().Desc("First operand"),
			toolbus.Number("b").Required().Desc("Second operand"),
		),
		Execute: func(ctx context.Context, in calcInput) (map[string]any, error) {
			var result float64
			switch in.Op {
			case "add":
				result = in.A + in.B
			case "subtract":
				result = in.A - in.B
			case "multiply":
				result = in.A * in.B
			case "divide":
				if in.B == 0 {
					return nil, fmt.Errorf("division by zero")
				}
				result = in.A / in.B
			default:
				return nil, fmt.Errorf("unsupported op %q", in.Op)
			}
			return map[string]any{"op": in.Op, "result": result}, nil
		},
	})
}

func getTimeTool(cfg Config) toolbus.Tool {
	return toolbus.New("get_time", toolbus.Spec[struct{}, map[string]any]{
		Description: "Get the current date and time",
		InputSchema: cfg.object(),
		Execute: func(ctx context.Context, _ struct{}) (map[string]any, error) {
			now := timeNow()
			return map[string]any{
				"time": now.Format(time.RFC3339),
				"unix": now.Unix(),
			}, nil
		},
	})
}

type echoInput struct {
	Message string `json:"message"`
}

func echoTool(cfg Config) toolbus.Tool {
	return toolbus.New("echo", toolbus.Spec[echoInput, map[string]any]{
		Description: "Echo a message back",
		InputSchema: cfg.object(
			toolbus.String("message").Required().Desc("Message to echo"),
		),
		Execute: func(ctx context.Context, in echoInput) (map[string]any, error) {
			return map[string]any{"echo": in.Message}, nil
		},
	})
}

type readFileInput struct {
	Filepath string `json:"filepath"`
}

func readFileTool(cfg Config) toolbus.Tool {
	return toolbus.New("read_file", toolbus.Spec[readFileInput, map[string]any]{
		Description: "Read the contents of a file",
		InputSchema: cfg.object(
			toolbus.String("filepath").Required().Desc("Path to the file to read"),
		),
		Execute: func(ctx context.Context, in readFileInput) (map[string]any, error) {
			data, err := os.ReadFile(in.Filepath)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", in.Filepath, err)
			}
			return map[string]any{
				"filepath": in.Filepath,
				"content":  string(data),
				"size":     len(data),
			}, nil
		},
	})
}
