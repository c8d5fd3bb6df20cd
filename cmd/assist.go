package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/seyhak/taxrevo/agent"
	"github.com/seyhak/taxrevo/renderer"
	"google.golang.org/genai"
)

// assistCmd starts an interactive session with the AI assistant,
// grounded on the computed tax report.
type assistCmd struct {
	engineFlags
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `assist [question]:
  Compute the tax report and start an interactive session with the AI
  assistant about it. Requires Gemini credentials in the environment.
`
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	report, err := c.compute(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error computing report:", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, renderer.ReportMarkdown(report))
	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
