package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/pantry/internal/app"
	"github.com/alexanderramin/pantry/internal/auth"
	"github.com/alexanderramin/pantry/internal/blob/memory"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/alexanderramin/pantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

// testApp wires a full App backed by an in-memory DB and blob store.
func testApp(t *testing.T) *App {
	t.Helper()
	verifier, err := auth.NewVerifier("test-secret")
	require.NoError(t, err)
	return &App{
		Services:      app.NewServices(testutil.NewTestDB(t), memory.New()),
		Session:       auth.StaticSource{UserID: testUser, Email: "maker@example.com"},
		Verifier:      verifier,
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func seedItem(t *testing.T, app *App, name string, qty float64) *domain.InventoryItem {
	t.Helper()
	item, err := app.Inventory.Create(context.Background(), testUser, service.InventoryItemInput{
		Name: name, Quantity: qty, Unit: "bottle", UnitCost: 4,
	})
	require.NoError(t, err)
	return item
}

func writeForm(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func bookshelfForm(itemID string) string {
	return fmt.Sprintf(`name: Bookshelf
description: Pine, three shelves
estimated_time: 6
materials:
  - inventory_item_id: %[1]s
    quantity_needed: 2
subprojects:
  - name: Shelves
    estimated_time: 1.5
    materials:
      - inventory_item_id: %[1]s
        quantity_needed: 1
`, itemID)
}

func onlyProject(t *testing.T, app *App) *domain.Project {
	t.Helper()
	projects, err := app.Projects.List(context.Background(), testUser, service.ListProjectsOptions{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	return projects[0]
}

// --- inventory ---

func TestInventory_AddListUpdate(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "inventory", "add", "--name", "Wood Glue", "--qty", "3", "--unit", "bottle", "--cost", "4.5")
	require.NoError(t, err)
	assert.Contains(t, output, "Added Wood Glue")

	output, err = executeCmd(t, app, "inventory", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Wood Glue")
	assert.Contains(t, output, "3 bottle")
	assert.Contains(t, output, "$13.50")

	items, err := app.Inventory.List(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, items, 1)

	output, err = executeCmd(t, app, "inventory", "update", items[0].ID, "--cost", "5")
	require.NoError(t, err)
	assert.Contains(t, output, "Updated Wood Glue")

	item, err := app.Inventory.Get(context.Background(), testUser, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Wood Glue", item.Name, "unset flags keep their values")
	assert.InDelta(t, 3.0, item.Quantity, 1e-9)
	assert.InDelta(t, 5.0, item.UnitCost, 1e-9)
}

func TestInventory_AddRequiresNameWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "inventory", "add", "--qty", "1")
	assert.ErrorContains(t, err, "--name is required")
}

func TestInventory_SetQty(t *testing.T) {
	app := testApp(t)
	item := seedItem(t, app, "Wood Glue", 1)

	_, err := executeCmd(t, app, "inventory", "set-qty", item.ID, "lots")
	assert.ErrorContains(t, err, "invalid quantity")

	_, err = executeCmd(t, app, "inventory", "set-qty", "--", item.ID, "-2")
	assert.ErrorIs(t, err, domain.ErrValidation)

	output, err := executeCmd(t, app, "inventory", "set-qty", item.ID[:13], "7.5")
	require.NoError(t, err)
	assert.Contains(t, output, "7.5 bottle")
}

func TestInventory_RemoveInUse(t *testing.T) {
	app := testApp(t)
	item := seedItem(t, app, "Wood Glue", 3)
	_, err := executeCmd(t, app, "project", "create", "-f", writeForm(t, bookshelfForm(item.ID)))
	require.NoError(t, err)

	_, err = executeCmd(t, app, "inventory", "remove", item.ID)
	require.ErrorIs(t, err, domain.ErrInventoryInUse)
	assert.Equal(t, "Cannot delete material that is being used in projects", domain.Message(err))

	other := seedItem(t, app, "Sandpaper", 10)
	output, err := executeCmd(t, app, "inventory", "rm", other.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "Removed inventory item")
}

func TestInventory_BrowseNeedsTerminal(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "inventory", "browse")
	assert.ErrorContains(t, err, "interactive terminal")
}

// --- projects ---

func TestProject_CreateShowExportEdit(t *testing.T) {
	app := testApp(t)
	item := seedItem(t, app, "Wood Glue", 3)

	output, err := executeCmd(t, app, "project", "create", "-f", writeForm(t, bookshelfForm(item.ID)))
	require.NoError(t, err)
	assert.Contains(t, output, "Created project Bookshelf")
	assert.Contains(t, output, "1 subprojects, 2 materials")

	p := onlyProject(t, app)

	output, err = executeCmd(t, app, "project", "show", p.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, output, "Bookshelf")
	assert.Contains(t, output, "SHELVES")
	assert.Contains(t, output, "Wood Glue")
	assert.Contains(t, output, "$12.00", "(2 + 1) x 4")

	output, err = executeCmd(t, app, "project", "export", p.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "name: Bookshelf")
	assert.Contains(t, output, "inventory_item_id: "+item.ID)

	exported := filepath.Join(t.TempDir(), "export.yaml")
	_, err = executeCmd(t, app, "project", "export", p.ID, "-o", exported)
	require.NoError(t, err)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	edited := strings.Replace(string(data), "name: Bookshelf", "name: Tall Bookshelf", 1)
	edited = strings.Replace(edited, "- name: Shelves", "- name: Drawers", 1)

	output, err = executeCmd(t, app, "project", "edit", p.ID, "-f", writeForm(t, edited))
	require.NoError(t, err)
	assert.Contains(t, output, "Updated project Tall Bookshelf")

	detail, err := app.Projects.GetDetail(context.Background(), testUser, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tall Bookshelf", detail.Project.Name)
	require.Len(t, detail.Subprojects, 1)
	assert.Equal(t, "Drawers", detail.Subprojects[0].Name)
	assert.Len(t, detail.AllMaterials(), 2)
}

func TestProject_CreateRequiresFile(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "create")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "project", "create", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading")

	_, err = executeCmd(t, app, "project", "create", "-f", writeForm(t, "name: [unclosed"))
	assert.ErrorContains(t, err, "parsing")

	_, err = executeCmd(t, app, "project", "create", "-f", writeForm(t, "description: no name\n"))
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestProject_CreateFromJSON(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "create", "-f", writeForm(t, `{"name": "Birdhouse", "is_public": true}`))
	require.NoError(t, err)
	p := onlyProject(t, app)
	assert.True(t, p.IsPublic)
}

func TestProject_ListAndRemove(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "create", "-f", writeForm(t, "name: Bookshelf\n"))
	require.NoError(t, err)

	output, err := executeCmd(t, app, "project", "list", "--search", "book")
	require.NoError(t, err)
	assert.Contains(t, output, "Bookshelf")

	output, err = executeCmd(t, app, "project", "list", "--search", "stool")
	require.NoError(t, err)
	assert.Contains(t, output, "No projects yet")

	p := onlyProject(t, app)
	_, err = executeCmd(t, app, "project", "remove", p.ID)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "project", "show", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProject_NewNeedsTerminal(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "project", "new")
	assert.ErrorContains(t, err, "interactive terminal")
}

// --- fulfillment ---

func TestProject_Fulfill(t *testing.T) {
	app := testApp(t)
	item := seedItem(t, app, "Wood Glue", 3)
	_, err := executeCmd(t, app, "project", "create", "-f", writeForm(t, bookshelfForm(item.ID)))
	require.NoError(t, err)
	p := onlyProject(t, app)

	output, err := executeCmd(t, app, "project", "fulfill", p.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "Fulfilled 2 of 2 materials")
	assert.Contains(t, output, "3 bottle → 1 bottle")

	_, err = executeCmd(t, app, "project", "fulfill", p.ID)
	require.ErrorIs(t, err, domain.ErrNoMaterialsToFulfill)
	assert.Equal(t, "No materials found to fulfill", domain.Message(err))
}

func TestMaterial_FulfillInsufficient(t *testing.T) {
	app := testApp(t)
	item := seedItem(t, app, "Wood Glue", 1)
	_, err := executeCmd(t, app, "project", "create", "-f", writeForm(t, bookshelfForm(item.ID)))
	require.NoError(t, err)
	p := onlyProject(t, app)

	detail, err := app.Projects.GetDetail(context.Background(), testUser, p.ID)
	require.NoError(t, err)
	direct := detail.Materials[0].ID

	_, err = executeCmd(t, app, "material", "fulfill", direct)
	require.Error(t, err)
	assert.Equal(t, "Insufficient quantity for Wood Glue", domain.Message(err))

	_, err = executeCmd(t, app, "material", "fulfill")
	assert.Error(t, err, "at least one id is required")
}

// --- reports ---

func TestReport_TableAndXLSX(t *testing.T) {
	app := testApp(t)
	item := seedItem(t, app, "Wood Glue", 3)
	_, err := executeCmd(t, app, "project", "create", "-f", writeForm(t, bookshelfForm(item.ID)))
	require.NoError(t, err)

	output, err := executeCmd(t, app, "report")
	require.NoError(t, err)
	assert.Contains(t, output, "PROJECT REPORT")
	assert.Contains(t, output, "Bookshelf")
	assert.Contains(t, output, "$12.00")

	dir := t.TempDir()
	output, err = executeCmd(t, app, "report", "--xlsx", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote "+dir)
	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	file := filepath.Join(dir, "custom.xlsx")
	output, err = executeCmd(t, app, "report", "--xlsx", file)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+file+"\n", output)
	assert.FileExists(t, file)
}

func TestReport_RejectsStrayArgs(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "report", "out/")
	require.Error(t, err)

	_, err = executeCmd(t, app, "report", "--xlsx")
	require.Error(t, err, "--xlsx needs a path")
}

// --- files ---

func TestFile_AttachListGetRemove(t *testing.T) {
	app := testApp(t)
	item := seedItem(t, app, "Wood Glue", 3)
	_, err := executeCmd(t, app, "project", "create", "-f", writeForm(t, bookshelfForm(item.ID)))
	require.NoError(t, err)
	p := onlyProject(t, app)

	src := filepath.Join(t.TempDir(), "cut-list.txt")
	require.NoError(t, os.WriteFile(src, []byte("2x 80cm boards"), 0o644))

	output, err := executeCmd(t, app, "file", "attach", p.ID, src, "--subproject", "shelves", "--description", "cuts")
	require.NoError(t, err)
	assert.Contains(t, output, "Attached cut-list.txt")

	_, err = executeCmd(t, app, "file", "attach", p.ID, src, "--subproject", "drawers")
	assert.ErrorIs(t, err, domain.ErrSubprojectNotFound)

	output, err = executeCmd(t, app, "file", "list", p.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "cut-list.txt")
	assert.Contains(t, output, "subproject")

	files, err := app.Files.List(context.Background(), testUser, p.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)

	output, err = executeCmd(t, app, "file", "get", files[0].ID, "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "2x 80cm boards", output)

	dst := filepath.Join(t.TempDir(), "copy.txt")
	_, err = executeCmd(t, app, "file", "get", files[0].ID[:8], "-o", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "2x 80cm boards", string(data))

	_, err = executeCmd(t, app, "file", "remove", files[0].ID)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "file", "get", files[0].ID, "-o", "-")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

// --- session ---

func TestWhoami(t *testing.T) {
	app := testApp(t)
	output, err := executeCmd(t, app, "whoami")
	require.NoError(t, err)
	assert.Contains(t, output, testUser)
	assert.Contains(t, output, "maker@example.com")

	app.Session = auth.StaticSource{}
	_, err = executeCmd(t, app, "whoami")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = executeCmd(t, app, "inventory", "list")
	assert.ErrorIs(t, err, domain.ErrAuthRequired, "every command needs a session")
}

func TestToken_IssuesVerifiableToken(t *testing.T) {
	app := testApp(t)
	output, err := executeCmd(t, app, "token", "--email", "maker@example.com")
	require.NoError(t, err)

	s, err := app.Verifier.Verify(strings.TrimSpace(output))
	require.NoError(t, err)
	assert.Equal(t, testUser, s.UserID)
	assert.Equal(t, "maker@example.com", s.Email)

	app.Session = auth.TokenSource{Verifier: app.Verifier, Token: strings.TrimSpace(output)}
	output, err = executeCmd(t, app, "whoami")
	require.NoError(t, err)
	assert.Contains(t, output, "token expires")
}

func TestServe_RequiresSecret(t *testing.T) {
	app := testApp(t)
	app.Verifier = nil
	_, err := executeCmd(t, app, "serve")
	assert.ErrorContains(t, err, "JWT secret")

	_, err = executeCmd(t, app, "token")
	assert.ErrorContains(t, err, "JWT secret")
}
