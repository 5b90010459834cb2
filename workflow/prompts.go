/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workflow

import (
	"encoding/xml"
	"fmt"
	"strings"

	"chainguard.dev/sweagent/agents/promptbuilder"
	"chainguard.dev/sweagent/reconcilers/githubreconciler"
)

const systemPrompt = `You are a senior software engineer working autonomously in a local clone of a GitHub repository.
You can read, write, delete, list and search files in the clone, and run shell commands from its root.
Make focused, minimal changes that follow the conventions already present in the codebase.
Never create branches, commit, push or open pull requests yourself. That happens automatically from your working tree once you finish.`

const taskTemplate = `You have been assigned the following task.

<task>
{{task}}
</task>

Work through this checklist in order:
{{checklist}}

When every item is done, reply with a short summary of what you changed and why, and end the reply with {{sentinel}}.`

const fixIssueChecklist = `1. Analyze the codebase: find the code the issue refers to and understand how it is used.
2. Plan the fix: decide which files change and how, before editing anything.
3. Implement the fix with the file tools.
4. Test: run the project's existing tests (and add a regression test where the project has tests) with run_command, and fix any failures.
5. Prepare the pull request: make sure the working tree contains only the changes that belong in it. Your final summary becomes its description.`

const workChecklist = `1. Analyze the codebase: learn its layout, build system and conventions.
2. Plan the work: break the task into concrete file changes.
3. Implement the changes with the file tools.
4. Test: build the project and run its tests with run_command, and fix any failures.
5. Prepare the pull request: make sure the working tree contains only the changes that belong in it. Your final summary becomes its description.`

const createRepositoryChecklist = `1. Analyze the new repository: it was just created and contains little more than a README.
2. Plan a full-stack project structure that fits the description: source layout, build files, a test setup and a .gitignore.
3. Implement the structure with the file tools, including a minimal working example of each layer.
4. Test: build the project and run its tests with run_command, and fix any failures.
5. Prepare the pull request: update the README to explain how to build, run and test the project. Your final summary becomes the pull request description.`

const reviewTemplate = `Review the pull request described below. The local clone is checked out at the pull request's base branch, so you can read the surrounding code.

<pull_request>
{{pull_request}}
</pull_request>

{{diff}}

Work through this checklist in order:
1. Analyze the change: read the diff and the files it touches.
2. Check correctness: look for bugs, unhandled errors, missing tests and security problems.
3. Check fit: note where the change departs from the conventions of the codebase.
4. Write the review in Markdown, leading with an overall verdict and listing concrete findings with file and line references.
{{submit}}
Reply with the complete review and end the reply with {{sentinel}}.`

const submitInstruction = `5. Post the review with submit_review, choosing APPROVE, REQUEST_CHANGES or COMMENT.
`

var (
	fixIssuePrompt         = promptbuilder.MustNewPrompt(taskTemplate).MustBindLiteral("checklist", fixIssueChecklist)
	workPrompt             = promptbuilder.MustNewPrompt(taskTemplate).MustBindLiteral("checklist", workChecklist)
	createRepositoryPrompt = promptbuilder.MustNewPrompt(taskTemplate).MustBindLiteral("checklist", createRepositoryChecklist)

	reviewSubmitPrompt = promptbuilder.MustNewPrompt(reviewTemplate).MustBindLiteral("submit", submitInstruction)
	reviewOnlyPrompt   = promptbuilder.MustNewPrompt(reviewTemplate).MustBindLiteral("submit", "")
)

// taskContext is the task as the model sees it.
type taskContext struct {
	Repository  string `yaml:"repository"`
	BaseBranch  string `yaml:"base_branch"`
	Description string `yaml:"description"`
}

// reviewDiff renders a diff as <diff>...</diff> with the text escaped.
type reviewDiff struct {
	XMLName xml.Name `xml:"diff"`
	Text    string   `xml:",chardata"`
}

func taskPrompt(task Task, base, sentinel string) (string, error) {
	var p *promptbuilder.Prompt
	switch task.Kind {
	case KindFixIssue:
		p = fixIssuePrompt
	case KindWork:
		p = workPrompt
	case KindCreateRepository:
		p = createRepositoryPrompt
	default:
		return "", fmt.Errorf("no prompt for %s tasks", task.Kind)
	}

	p, err := p.BindYAML("task", taskContext{
		Repository:  task.Repository.String(),
		BaseBranch:  base,
		Description: task.Issue,
	})
	if err != nil {
		return "", err
	}
	if p, err = p.BindJSON("sentinel", sentinel); err != nil {
		return "", err
	}
	return p.Build()
}

func reviewSeed(pr *githubreconciler.PullRequest, submit bool, sentinel string) (string, error) {
	p := reviewOnlyPrompt
	if submit {
		p = reviewSubmitPrompt
	}
	p, err := p.BindYAML("pull_request", pr)
	if err != nil {
		return "", err
	}
	if p, err = p.BindXML("diff", reviewDiff{Text: pr.Diff}); err != nil {
		return "", err
	}
	if p, err = p.BindJSON("sentinel", sentinel); err != nil {
		return "", err
	}
	return p.Build()
}

// summarize strips the sentinel from the final agent message.
func summarize(final, sentinel string) string {
	final = strings.ReplaceAll(final, `"`+sentinel+`"`, "")
	return strings.TrimSpace(strings.ReplaceAll(final, sentinel, ""))
}
