package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizidox/plato-client-go/plato"
	"github.com/vizidox/plato-client-go/plato/platotest"
)

// runCommand executes the root command with a throwaway config so flag
// handling is exercised end to end.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PLATO_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeJSONFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTemplatesListCommand(t *testing.T) {
	srv := platotest.NewServer(t)
	srv.AddTemplate(plato.TemplateInfo{TemplateID: "cert", Tags: []string{"certificate"}})

	out, err := runCommand(t, "templates", "list", "--host", srv.URL)
	require.NoError(t, err)

	var templates []plato.TemplateInfo
	require.NoError(t, json.Unmarshal([]byte(out), &templates))
	require.Len(t, templates, 1)
	assert.Equal(t, "cert", templates[0].TemplateID)
}

func TestTemplatesGetCommand(t *testing.T) {
	srv := platotest.NewServer(t)
	srv.AddTemplate(plato.TemplateInfo{TemplateID: "invoice", Type: "application/pdf"})

	out, err := runCommand(t, "templates", "get", "invoice", "--host", srv.URL)
	require.NoError(t, err)

	var info plato.TemplateInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "invoice", info.TemplateID)
	assert.Equal(t, "application/pdf", info.Type)
}

func TestTemplatesGetCommand_NotFound(t *testing.T) {
	srv := platotest.NewServer(t)

	_, err := runCommand(t, "templates", "get", "missing", "--host", srv.URL)
	assert.ErrorIs(t, err, plato.ErrNotFound)
}

func TestCreateCommand(t *testing.T) {
	srv := platotest.NewServer(t)

	archive := writeJSONFile(t, "bundle.zip", "PK\x03\x04 assets")
	details := writeJSONFile(t, "details.json", `{"template_id":"cert","type":"text/html"}`)

	out, err := runCommand(t, "create", "--archive", archive, "--details", details, "--host", srv.URL)
	require.NoError(t, err)

	var info plato.TemplateInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "cert", info.TemplateID)

	_, stored := srv.Template("cert")
	assert.True(t, stored)
}

func TestComposeCommandWritesFile(t *testing.T) {
	srv := platotest.NewServer(t)
	srv.AddTemplate(plato.TemplateInfo{TemplateID: "cert"})
	srv.SetComposeOutput([]byte("%PDF-1.4 out"), "application/pdf")

	data := writeJSONFile(t, "data.json", `{"name":"Charlotte Pine"}`)
	target := filepath.Join(t.TempDir(), "cert.pdf")

	out, err := runCommand(t, "compose", "cert", "--data", data, "-o", target, "--host", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 out"), written)
}

func TestComposeCommand_RequiresBothDimensions(t *testing.T) {
	srv := platotest.NewServer(t)
	srv.AddTemplate(plato.TemplateInfo{TemplateID: "cert"})

	_, err := runCommand(t, "compose", "cert", "--height", "100", "--host", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--height and --width")
}
