package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/toolbus-dev/toolbus"
)

// Repository is one entry in the mock GitHub index.
type Repository struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var githubRepos = []Repository{
	{Name: "mcp-tutorial", Description: "AI Agent Tutorial"},
	{Name: "awesome-mcp", Description: "MCP Resources"},
	{Name: "toolbus", Description: "Tool registry and dispatch"},
}

// GitHub returns mock GitHub operations.
func GitHub(cfg Config) Service {
	return Service{
		Name: "github",
		Tools: []toolbus.Tool{
			searchRepositoriesTool(cfg),
			createIssueTool(cfg),
		},
	}
}

type searchReposInput struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func searchRepositoriesTool(cfg Config) toolbus.Tool {
	return toolbus.New("search_repositories", toolbus.Spec[searchReposInput, map[string]any]{
		Description: "Search GitHub repositories",
		InputSchema: cfg.object(
			toolbus.String("query").Required().Desc("Search query"),
			toolbus.Integer("limit").Desc("Maximum results to return"),
		),
		Execute: func(ctx context.Context, in searchReposInput) (map[string]any, error) {
			q := strings.ToLower(in.Query)
			matches := make([]Repository, 0, len(githubRepos))
			for _, r := range githubRepos {
				if strings.Contains(strings.ToLower(r.Name), q) ||
					strings.Contains(strings.ToLower(r.Description), q) {
					matches = append(matches, r)
				}
			}
			if in.Limit > 0 && len(matches) > in.Limit {
				matches = matches[:in.Limit]
			}
			return map[string]any{
				"query":        in.Query,
				"total":        len(matches),
				"repositories": matches,
			}, nil
		},
	})
}

type createIssueInput struct {
	Repo  string `json:"repo"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func createIssueTool(cfg Config) toolbus.Tool {
	// Issue numbers are shared state owned by this handler; the counter
	// serializes its own mutation so concurrent invocations stay safe.
	var (
		mu   sync.Mutex
		next = 1
	)
	return toolbus.New("create_issue", toolbus.Spec[createIssueInput, map[string]any]{
		Description: "Create a GitHub issue",
		InputSchema: cfg.object(
			toolbus.String("repo").Required().Desc("Repository name"),
			toolbus.String("title").Required().Desc("Issue title"),
			toolbus.String("body").Desc("Issue body"),
		),
		Execute: func(ctx context.Context, in createIssueInput) (map[string]any, error) {
			mu.Lock()
			number := next
			next++
			mu.Unlock()
			return map[string]any{
				"status":       "created",
				"repo":         in.Repo,
				"title":        in.Title,
				"issue_number": number,
			}, nil
		},
	})
}
