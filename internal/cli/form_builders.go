package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/pantry/internal/cli/formatter"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// pantryHuhTheme returns a huh theme matching the formatter palette.
func pantryHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themed(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(pantryHuhTheme()).WithShowHelp(false)
}

// nameInput returns a required text input.
func nameInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateRequired)
}

// numberInput returns an input accepting a non-negative number. Blank is
// allowed when optional is set.
func numberInput(title, placeholder string, optional bool, value *string) *huh.Input {
	validate := validateNonNegative
	if optional {
		validate = validateOptionalNonNegative
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validate)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateNonNegative(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func validateOptionalNonNegative(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateNonNegative(s)
}

func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatOrZero(s string) float64 {
	if v := parseOptionalFloat(s); v != nil {
		return *v
	}
	return 0
}

// inventoryFormValues holds the raw text of the inventory form fields.
type inventoryFormValues struct {
	Name, Description, Quantity, Unit, UnitCost string
}

func (v inventoryFormValues) input() service.InventoryItemInput {
	return service.InventoryItemInput{
		Name:        strings.TrimSpace(v.Name),
		Description: strings.TrimSpace(v.Description),
		Quantity:    parseFloatOrZero(v.Quantity),
		Unit:        strings.TrimSpace(v.Unit),
		UnitCost:    parseFloatOrZero(v.UnitCost),
	}
}

func inventoryForm(v *inventoryFormValues) *huh.Form {
	return themed(
		huh.NewGroup(
			nameInput("Name", "Wood Glue", &v.Name),
			huh.NewInput().Title("Description").Value(&v.Description),
			numberInput("Quantity on hand", "0", false, &v.Quantity),
			huh.NewInput().Title("Unit").Placeholder("bottle").Value(&v.Unit),
			numberInput("Cost per unit", "0.00", false, &v.UnitCost),
		),
	)
}

func runInventoryForm(in *service.InventoryItemInput) error {
	v := inventoryFormValues{Quantity: "0", UnitCost: "0"}
	if err := inventoryForm(&v).Run(); err != nil {
		return err
	}
	*in = v.input()
	return nil
}

// projectWizard collects a project form step by step: details first, then
// materials drawn from inventory, then optional subprojects.
type projectWizard struct {
	items []*domain.InventoryItem
	form  domain.ProjectForm
}

func (w *projectWizard) run() (domain.ProjectForm, error) {
	var name, description, estimate string
	public := false
	details := themed(huh.NewGroup(
		nameInput("Project name", "Bookshelf", &name),
		huh.NewText().Title("Description (markdown)").Value(&description),
		numberInput("Estimated hours", "blank for none", true, &estimate),
		huh.NewConfirm().Title("Public?").Value(&public),
	))
	if err := details.Run(); err != nil {
		return domain.ProjectForm{}, err
	}
	w.form = domain.ProjectForm{
		Name:          strings.TrimSpace(name),
		Description:   strings.TrimSpace(description),
		EstimatedTime: parseOptionalFloat(estimate),
		IsPublic:      public,
	}

	if err := w.collectMaterials(&w.form.Materials, "project"); err != nil {
		return domain.ProjectForm{}, err
	}

	for {
		more := false
		if err := themed(huh.NewGroup(huh.NewConfirm().Title("Add a subproject?").Value(&more))).Run(); err != nil {
			return domain.ProjectForm{}, err
		}
		if !more {
			break
		}
		var spName, spEstimate string
		if err := themed(huh.NewGroup(
			nameInput("Subproject name", "Shelves", &spName),
			numberInput("Estimated hours", "blank for none", true, &spEstimate),
		)).Run(); err != nil {
			return domain.ProjectForm{}, err
		}
		i := w.form.AddSubproject(strings.TrimSpace(spName))
		w.form.Subprojects[i].EstimatedTime = parseOptionalFloat(spEstimate)
		if err := w.collectMaterials(&w.form.Subprojects[i].Materials, spName); err != nil {
			return domain.ProjectForm{}, err
		}
	}
	return w.form, nil
}

func (w *projectWizard) collectMaterials(list *domain.MaterialList, owner string) error {
	if len(w.items) == 0 {
		return nil
	}
	options := inventoryOptions(w.items)
	for {
		more := false
		title := fmt.Sprintf("Add a material to %s?", owner)
		if err := themed(huh.NewGroup(huh.NewConfirm().Title(title).Value(&more))).Run(); err != nil {
			return err
		}
		if !more {
			return nil
		}
		var itemID, qty string
		if err := themed(huh.NewGroup(
			huh.NewSelect[string]().Title("Inventory item").Options(options...).Value(&itemID),
			numberInput("Quantity needed", "1", false, &qty),
		)).Run(); err != nil {
			return err
		}
		list.Add(itemID, parseFloatOrZero(qty))
	}
}

func inventoryOptions(items []*domain.InventoryItem) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(items))
	for _, it := range items {
		label := fmt.Sprintf("%s (%s on hand)", it.Name, formatter.Quantity(it.Quantity, it.Unit))
		options = append(options, huh.NewOption(label, it.ID))
	}
	return options
}
