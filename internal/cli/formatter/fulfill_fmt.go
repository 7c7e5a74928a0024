package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pantry/internal/service"
)

// FormatFulfillResult summarizes a fulfillment run, listing each inventory
// change it made.
func FormatFulfillResult(r *service.FulfillResult) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %d of %d materials",
		StyleGreen.Render("Fulfilled"), len(r.Fulfilled), len(r.Requested)))
	if n := len(r.Skipped); n > 0 {
		b.WriteString(Dim(fmt.Sprintf(" (%d skipped: already fulfilled or not found)", n)))
	}
	b.WriteString("\n")
	for _, a := range r.Adjustments {
		b.WriteString(fmt.Sprintf("  %s %s: %s → %s\n",
			TruncID(a.MaterialID), Bold(a.ItemName),
			Quantity(a.Before, a.Unit),
			StockStyle(a.After, 0).Render(Quantity(a.After, a.Unit))))
	}
	return b.String()
}
