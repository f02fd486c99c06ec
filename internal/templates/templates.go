// Package templates provides task templates with {variable} placeholders.
// Built-in templates ship with the binary; custom templates are JSON files in
// the user's templates directory and shadow built-ins by name.
package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Template is a reusable task shape. Name and Description may contain
// {variable} placeholders listed in Variables.
type Template struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Priority    int      `json:"priority,omitempty"`
	Variables   []string `json:"variables,omitempty"`

	custom bool
}

// Custom reports whether the template was loaded from disk rather than
// compiled in.
func (t Template) Custom() bool { return t.custom }

// Expand substitutes vars into the name and description. Placeholders with no
// value provided are an error.
func (t Template) Expand(vars map[string]string) (name, description string, err error) {
	name = t.Name
	description = t.Description
	var missing []string
	for _, v := range t.Variables {
		val, ok := vars[v]
		if !ok {
			missing = append(missing, v)
			continue
		}
		placeholder := "{" + v + "}"
		name = strings.ReplaceAll(name, placeholder, val)
		description = strings.ReplaceAll(description, placeholder, val)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}
	return name, description, nil
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// inferVariables scans name and description for placeholders when a custom
// template omits the variables list.
func inferVariables(name, description string) []string {
	seen := map[string]bool{}
	var vars []string
	for _, m := range placeholderRe.FindAllStringSubmatch(name+"\n"+description, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	return vars
}

// BuiltIn returns the compiled-in templates keyed by name.
func BuiltIn() map[string]Template {
	return map[string]Template{
		"bug_report": {
			Name: "[Bug] {title}",
			Description: `## Bug Description
{description}

## Steps to Reproduce
1. {step1}
2. {step2}
3. {step3}

## Expected Behavior
{expected}

## Actual Behavior
{actual}

## Environment
- Browser/OS: {environment}
- Version: {version}

## Screenshots/Logs
{attachments}

## Severity: {severity}`,
			Priority: 2,
			Variables: []string{
				"title", "description", "step1", "step2", "step3",
				"expected", "actual", "environment", "version",
				"attachments", "severity",
			},
		},
		"feature_request": {
			Name: "[Feature] {title}",
			Description: `## Feature Description
{description}

## Problem Statement
{problem}

## Proposed Solution
{solution}

## User Story
As a {user_type}, I want {want} so that {benefit}.

## Acceptance Criteria
- [ ] {criteria1}
- [ ] {criteria2}
- [ ] {criteria3}

## Design/Mockups
{design}

## Success Metrics
{metrics}`,
			Priority: 3,
			Variables: []string{
				"title", "description", "problem", "solution",
				"user_type", "want", "benefit",
				"criteria1", "criteria2", "criteria3",
				"design", "metrics",
			},
		},
		"sprint_task": {
			Name: "{epic} - {task_name}",
			Description: `## Task Description
{description}

## Objective
{objective}

## Definition of Done
- [ ] {done1}
- [ ] {done2}
- [ ] {done3}

## Subtasks
- [ ] {subtask1}
- [ ] {subtask2}
- [ ] {subtask3}

## Dependencies
{dependencies}

## Estimate
{estimate} story points`,
			Priority: 3,
			Variables: []string{
				"epic", "task_name", "description", "objective",
				"done1", "done2", "done3",
				"subtask1", "subtask2", "subtask3",
				"dependencies", "estimate",
			},
		},
		"meeting_notes": {
			Name: "Meeting Notes - {meeting_title} ({date})",
			Description: `## Meeting Details
- Date: {date}
- Time: {time}
- Attendees: {attendees}
- Meeting Type: {meeting_type}

## Agenda
{agenda}

## Discussion Points
{discussion}

## Action Items
- [ ] {action1} - @{assignee1}
- [ ] {action2} - @{assignee2}
- [ ] {action3} - @{assignee3}

## Decisions Made
{decisions}

## Next Steps
{next_steps}`,
			Priority: 3,
			Variables: []string{
				"meeting_title", "date", "time", "attendees", "meeting_type",
				"agenda", "discussion",
				"action1", "assignee1", "action2", "assignee2", "action3", "assignee3",
				"decisions", "next_steps",
			},
		},
	}
}

// Load merges built-in templates with custom *.json files from dir. A custom
// template with a built-in name wins. Unreadable files are skipped.
func Load(dir string) map[string]Template {
	all := BuiltIn()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return all
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			continue
		}
		if len(t.Variables) == 0 {
			t.Variables = inferVariables(t.Name, t.Description)
		}
		t.custom = true
		all[strings.TrimSuffix(entry.Name(), ".json")] = t
	}
	return all
}

// Get looks up a single template by name, custom templates first.
func Get(dir, name string) (Template, bool) {
	t, ok := Load(dir)[name]
	return t, ok
}

// Names returns the template names sorted.
func Names(all map[string]Template) []string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
