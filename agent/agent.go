// Package agent implements the AI assistant that answers questions about a
// computed tax report.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const systemPrompt = `You are a careful assistant for a capital-gains tax report.
Answer questions strictly from the report below. When a figure is asked for,
quote it as-is and name the instrument it belongs to. If the report does not
contain the answer, say so.

`

// Agent is the AI assistant that handles the chat session, primed with the
// rendered tax report.
type Agent struct {
	w      io.Writer
	r      *bufio.Reader
	Model  string
	config *genai.GenerateContentConfig
	chat   *genai.Chat
}

// New creates a new Agent over the rendered report.
//
// It takes an io.Writer for the agent's output (e.g., os.Stdout), and an
// io.Reader for user input (e.g., os.Stdin).
func New(w io.Writer, r io.Reader, report string) *Agent {
	return &Agent{
		w:     w,
		r:     bufio.NewReader(r),
		Model: defaultModel,
		config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemPrompt + report}},
			},
		},
	}
}

// Start creates the Gemini chat session.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, a.Model, a.config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask is a simple wrapper on top of Chat.Send.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the assistant")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session for the agent.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to taxrevo assist. Type 'bye' to exit.")

	// REPL loop
	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
