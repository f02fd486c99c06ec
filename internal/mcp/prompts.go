package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.srv.AddPrompt(mcp.NewPrompt("daily_standup",
		mcp.WithPromptDescription("Generate a daily standup report from ClickUp tasks"),
		mcp.WithArgument("team_id", mcp.RequiredArgument(), mcp.ArgumentDescription("Team/workspace ID")),
		mcp.WithArgument("assignee", mcp.ArgumentDescription("Focus on a specific assignee (optional)")),
	), s.handleDailyStandup)

	s.srv.AddPrompt(mcp.NewPrompt("project_overview",
		mcp.WithPromptDescription("Generate a project overview from a ClickUp list"),
		mcp.WithArgument("list_id", mcp.RequiredArgument(), mcp.ArgumentDescription("List ID to analyze")),
	), s.handleProjectOverview)

	s.srv.AddPrompt(mcp.NewPrompt("bug_triage",
		mcp.WithPromptDescription("Create a structured bug report in ClickUp"),
		mcp.WithArgument("list_id", mcp.RequiredArgument(), mcp.ArgumentDescription("List ID for the bug report")),
		mcp.WithArgument("severity", mcp.ArgumentDescription("Bug severity (default: medium)")),
	), s.handleBugTriage)
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}

func (s *Server) handleDailyStandup(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	teamID := req.Params.Arguments["team_id"]
	assignee := req.Params.Arguments["assignee"]

	var b strings.Builder
	fmt.Fprintf(&b, `Generate a daily standup report for ClickUp team %s.

Please use the search_tasks tool to find:
1. Tasks completed yesterday
2. Tasks in progress today
3. Any blocked or overdue tasks

`, teamID)
	if assignee != "" {
		fmt.Fprintf(&b, "Focus on tasks assigned to: %s\n", assignee)
	}
	b.WriteString(`
Format the output as:
- **Completed Yesterday**: [list tasks]
- **In Progress Today**: [list tasks]
- **Blocked/Issues**: [list any problems]
- **Planned for Today**: [list upcoming tasks]
`)
	return promptResult("Daily standup report", b.String()), nil
}

func (s *Server) handleProjectOverview(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	listID := req.Params.Arguments["list_id"]

	text := fmt.Sprintf(`Generate a comprehensive project overview for ClickUp list %s.

Use the list_tasks tool to analyze the list and provide:

1. **Project Status Summary**
   - Total tasks and completion percentage
   - Tasks by status (open, in progress, completed, etc.)
   - Overdue tasks and upcoming deadlines

2. **Team Workload**
   - Tasks by assignee
   - Workload distribution
   - Unassigned tasks

3. **Priority Analysis**
   - High priority tasks
   - Critical path items
   - Risk assessment

4. **Next Actions**
   - Immediate action items
   - Blockers to address
   - Recommendations

Format as a clear, executive-friendly report.`, listID)
	return promptResult("Project overview report", text), nil
}

func (s *Server) handleBugTriage(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	listID := req.Params.Arguments["list_id"]
	severity := req.Params.Arguments["severity"]
	if severity == "" {
		severity = "medium"
	}

	text := fmt.Sprintf(`Create a bug report in ClickUp list %s with severity: %s

Use the create_task tool with this structured template:

**Title**: [Bug] Brief description of the issue

**Description**:
## Bug Description
[Clear description of what went wrong]

## Steps to Reproduce
1. Step one
2. Step two
3. Step three

## Expected Behavior
[What should have happened]

## Actual Behavior
[What actually happened]

## Environment
- Browser/OS:
- Version:
- Device:

## Screenshots/Logs
[Attach any relevant screenshots or error logs]

## Severity: %s
## Priority: [Set based on severity]

Please ask me for the specific bug details to fill in this template.`, listID, severity, strings.ToUpper(severity))
	return promptResult("Structured bug report", text), nil
}
