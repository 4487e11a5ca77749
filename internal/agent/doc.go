// Package agent invokes external AI coding assistants non-interactively.
//
// An Agent receives a natural-language instruction, runs the assistant's CLI
// inside the project working tree and waits for it to finish. The assistant
// reads files, edits them and creates commits on its own; the invoker does not
// parse or validate those edits. The commit history of the working tree is the
// record of what changed.
//
// # Assistants
//
// All assistants receive the prompt on stdin, which keeps long prompts clear
// of argument length limits:
//
//   - claude: claude --print -
//   - codex:  codex exec --full-auto -
//   - gemini: gemini --yolo
//
// # Results
//
// Invoke never returns a Go error. Launch failures, non-zero exits and
// timeouts all come back as a runner.Result with OK set to false, so callers
// treat a failed invocation as a state transition rather than a fault.
//
// Example usage:
//
//	a, err := agent.NewAgent("claude", runner.New(), projectDir)
//	if err != nil {
//	    return err
//	}
//	res := a.Invoke(ctx, prompt, agent.InvokeOptions{Timeout: timeouts.Change})
//	if !res.OK {
//	    logger.Logf(terminal.StyleError, "assistant failed: %s", res.Output)
//	}
package agent
