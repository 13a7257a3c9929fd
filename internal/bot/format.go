package bot

import (
	"fmt"
	"iter"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"budgetbot/internal/core"
)

// formatOverview renders the month overview in Telegram Markdown. ok is
// false when rows is empty.
func formatOverview(month string, rows iter.Seq[core.CategorySummary]) (string, bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "*Overview for %s*\n\n", escape(month))
	n := 0
	for r := range rows {
		n++
		fmt.Fprintf(&b, "*%s: %s*\n", escape(r.Group), escape(r.Category))
		fmt.Fprintf(&b, "  - Assigned: %s\n", core.FormatAmount(r.Assigned))
		fmt.Fprintf(&b, "  - Activity: %s\n", core.FormatAmount(r.Activity))
		fmt.Fprintf(&b, "  - Available: %s\n\n", core.FormatAmount(r.Available))
	}
	return strings.TrimRight(b.String(), "\n"), n > 0
}

// formatCategories renders category groups in Telegram Markdown. ok is
// false when there are no groups.
func formatCategories(groups iter.Seq[core.CategoryGroup]) (string, bool) {
	var b strings.Builder
	b.WriteString("*Available Categories:*\n\n")
	n := 0
	for g := range groups {
		n++
		fmt.Fprintf(&b, "*%s*\n", escape(g.Name))
		for _, c := range g.Categories {
			fmt.Fprintf(&b, "  - %s\n", escape(c))
		}
	}
	return strings.TrimRight(b.String(), "\n"), n > 0
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
