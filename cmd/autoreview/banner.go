package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/richhaase/let-claude-code/internal/config"
	"github.com/richhaase/let-claude-code/internal/modes"
	"github.com/richhaase/let-claude-code/internal/notify"
)

const bannerWidth = 60

// printBanner shows the effective settings before the first session.
func printBanner(w io.Writer, r config.Resolved, projectDir string, sel selection, registry *modes.Registry) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "\n%s\nAuto-Improvement Daemon\n%s\n", rule, rule)

	if notify.New(r.TelegramToken, r.TelegramChatID).Enabled() {
		fmt.Fprintln(w, "Telegram notifications: ENABLED")
	} else {
		fmt.Fprintln(w, "Telegram notifications: DISABLED")
	}
	fmt.Fprintf(w, "Project directory: %s\n", projectDir)
	fmt.Fprintf(w, "Base branch: %s\n", r.BaseBranch)
	fmt.Fprintf(w, "Max review-fix iterations: %d\n", r.MaxIterations)
	fmt.Fprintf(w, "Assistant: %s\n", r.Agent)

	switch {
	case sel.NorthStar:
		fmt.Fprintln(w, "Mode: North Star (iterating towards NORTHSTAR.md goals)")
	case sel.Prompt != "":
		fmt.Fprintln(w, "Using custom prompt from file")
	default:
		fmt.Fprintf(w, "Selected modes: %s\n", registry.Names(sel.Modes))
	}

	fmt.Fprintf(w, "%s\n\n", rule)
}

// listModes renders the mode registry as a table followed by the special selectors.
func listModes(w io.Writer, registry *modes.Registry) {
	fmt.Fprintln(w, "Available improvement modes:")
	fmt.Fprintln(w)

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithHeader([]string{"Mode", "Name", "Description"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	for _, m := range registry.All() {
		_ = table.Append([]string{m.Key, m.Name, m.Description})
	}
	_ = table.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Special modes:")
	fmt.Fprintf(w, "  %-12s Run all improvement modes\n", modes.All)
	fmt.Fprintf(w, "  %-12s Select modes interactively\n", modes.Interactive)
	fmt.Fprintf(w, "  %-12s Iterate towards goals in NORTHSTAR.md (or use -n)\n", modes.NorthStar)
}
