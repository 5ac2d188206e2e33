package plato_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizidox/plato-client-go/plato"
	"github.com/vizidox/plato-client-go/plato/platotest"
)

func newIntegrationClient(t *testing.T) (*plato.Client, *platotest.Server) {
	t.Helper()
	srv := platotest.NewServer(t)
	return plato.New(srv.URL, plato.WithRetryInterval(time.Millisecond)), srv
}

func TestTemplateLifecycle(t *testing.T) {
	c, srv := newIntegrationClient(t)
	ctx := context.Background()

	archive := bytes.NewReader([]byte("PK\x03\x04 certificate assets"))
	created, err := c.CreateTemplate(ctx, archive, map[string]any{
		"template_id":     "ranger_certificate",
		"template_schema": map[string]any{"type": "object"},
		"type":            "text/html",
		"metadata":        map[string]any{"owner": "vizidox"},
		"tags":            []string{"certificate"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ranger_certificate", created.TemplateID)

	_, stored := srv.Template("ranger_certificate")
	assert.True(t, stored)

	fetched, err := c.Template(ctx, "ranger_certificate")
	require.NoError(t, err)
	assert.Equal(t, created.TemplateID, fetched.TemplateID)
	assert.Equal(t, []string{"certificate"}, fetched.Tags)

	updated, err := c.UpdateTemplateDetails(ctx, "ranger_certificate", map[string]any{
		"template_id": "ranger_certificate",
		"type":        "text/html",
		"tags":        []string{"certificate", "training"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"certificate", "training"}, updated.Tags)

	replaced, err := c.UpdateTemplate(ctx, "ranger_certificate",
		bytes.NewReader([]byte("PK\x03\x04 v2")), map[string]any{
			"template_id": "ranger_certificate",
			"type":        "text/html",
			"tags":        []string{"certificate"},
		})
	require.NoError(t, err)
	assert.Equal(t, "ranger_certificate", replaced.TemplateID)
}

func TestListFiltersByTags(t *testing.T) {
	c, srv := newIntegrationClient(t)
	ctx := context.Background()

	srv.AddTemplate(plato.TemplateInfo{TemplateID: "cert", Tags: []string{"certificate", "training"}})
	srv.AddTemplate(plato.TemplateInfo{TemplateID: "invoice", Tags: []string{"billing"}})

	all, err := c.Templates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	certs, err := c.Templates(ctx, "certificate")
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "cert", certs[0].TemplateID)

	none, err := c.Templates(ctx, "certificate", "billing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestComposeAgainstFakeService(t *testing.T) {
	c, srv := newIntegrationClient(t)
	ctx := context.Background()

	srv.AddTemplate(plato.TemplateInfo{TemplateID: "cert", Type: "application/pdf"})
	srv.SetComposeOutput([]byte("%PDF-1.4 composed"), "application/pdf")

	result, err := c.Compose(ctx, "cert", map[string]any{"name": "Charlotte Pine"})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 composed"), result.Content)
	assert.Equal(t, "application/pdf", result.ContentType)

	example, err := c.TemplateExample(ctx, "cert", plato.WithPage(1))
	require.NoError(t, err)
	assert.Equal(t, result.Content, example.Content)

	target := filepath.Join(t.TempDir(), "cert.pdf")
	require.NoError(t, c.ComposeToFile(ctx, "cert", map[string]any{"name": "x"}, target))
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, result.Content, written)
}

func TestErrorsAgainstFakeService(t *testing.T) {
	c, _ := newIntegrationClient(t)
	ctx := context.Background()

	_, err := c.Compose(ctx, "missing", map[string]any{})
	assert.ErrorIs(t, err, plato.ErrNotFound)

	_, err = c.Template(ctx, "missing")
	assert.ErrorIs(t, err, plato.ErrNotFound)

	// Details without a template_id are rejected as invalid.
	_, err = c.CreateTemplate(ctx, bytes.NewReader([]byte("PK")), map[string]any{
		"tags": []string{"certificate"},
	})
	assert.ErrorIs(t, err, plato.ErrValidation)
}
