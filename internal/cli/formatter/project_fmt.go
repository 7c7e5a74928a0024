package formatter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/charmbracelet/glamour"
)

// FormatProjectList renders a styled project list inside a bordered box.
// Projects owned by someone other than userID are marked as shared.
func FormatProjectList(projects []*domain.Project, userID string) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Create one with: pantry project new")
	}
	headers := []string{"ID", "NAME", "ESTIMATE", "VISIBILITY", "UPDATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		name := Bold(p.Name)
		if p.UserID != userID {
			name += " " + StylePurple.Render("(shared)")
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			name,
			Hours(p.EstimatedTime),
			VisibilityBadge(p.IsPublic),
			RelativeDate(p.UpdatedAt),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows, 2))
}

// FormatProjectDetail renders a project with its materials grouped by
// subproject. width controls markdown wrapping of descriptions.
func FormatProjectDetail(d *domain.ProjectDetail, width int) string {
	p := d.Project
	var b strings.Builder

	b.WriteString(Bold(p.Name) + "  " + VisibilityBadge(p.IsPublic) + "\n")
	b.WriteString(Dim(fmt.Sprintf("id %s  estimate %s  created %s", p.ID, Hours(p.EstimatedTime), HumanDate(p.CreatedAt))) + "\n")
	if desc := Deref(p.Description); desc != "" {
		b.WriteString("\n" + RenderMarkdown(desc, width) + "\n")
	}

	b.WriteString("\n" + Header("Materials") + "\n")
	b.WriteString(formatMaterials(d.Materials))

	for _, sp := range d.Subprojects {
		b.WriteString("\n" + Header(sp.Name) + "\n")
		if desc := Deref(sp.Description); desc != "" {
			b.WriteString(RenderMarkdown(desc, width) + "\n")
		}
		if sp.EstimatedTime != nil {
			b.WriteString(Dim("estimate "+Hours(sp.EstimatedTime)) + "\n")
		}
		b.WriteString(formatMaterials(sp.Materials))
	}

	var cost float64
	all := d.AllMaterials()
	pending := 0
	for _, m := range all {
		cost += m.Cost()
		if !m.IsFulfilled {
			pending++
		}
	}
	b.WriteString("\n" + fmt.Sprintf("%s %s   %s %d of %d",
		Dim("Material cost"), Bold(Money(cost)),
		Dim("Pending"), pending, len(all)))
	return b.String()
}

func formatMaterials(ms []domain.MaterialWithItem) string {
	if len(ms) == 0 {
		return Dim("  none") + "\n"
	}
	headers := []string{"ID", "ITEM", "NEEDED", "ON HAND", "COST", "STATUS"}
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		onHand := Quantity(m.Item.Quantity, m.Item.Unit)
		if !m.IsFulfilled {
			onHand = StockStyle(m.Item.Quantity, m.QuantityNeeded).Render(onHand)
		}
		rows = append(rows, []string{
			TruncID(m.ID),
			m.Item.Name,
			Quantity(m.QuantityNeeded, m.Item.Unit),
			onHand,
			Money(m.Cost()),
			FulfilledBadge(m.IsFulfilled),
		})
	}
	return RenderTable(headers, rows, 2, 3, 4)
}

var rendererCache sync.Map // width -> *glamour.TermRenderer

// RenderMarkdown renders a markdown description for the terminal, falling
// back to the raw text when rendering fails.
func RenderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := markdownRenderer(width)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, r)
	return r, nil
}
