package platotest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizidox/plato-client-go/plato"
)

func TestListEmpty(t *testing.T) {
	srv := NewServer(t)

	resp, err := http.Get(srv.URL + "/templates/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, "[]", string(body))
}

func TestCreateRejectsMissingZipfile(t *testing.T) {
	srv := NewServer(t)

	resp, err := http.Post(srv.URL+"/template/create", "application/x-www-form-urlencoded",
		strings.NewReader("template_details={}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, http.StatusBadRequest, envelope.Error.Code)
	assert.NotEmpty(t, envelope.Error.Message)
}

func TestComposeUnknownTemplate(t *testing.T) {
	srv := NewServer(t)

	resp, err := http.Post(srv.URL+"/template/nope/compose", "application/json",
		strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestComposeRejectsBadQuery(t *testing.T) {
	srv := NewServer(t)
	srv.AddTemplate(plato.TemplateInfo{TemplateID: "cert"})

	resp, err := http.Post(srv.URL+"/template/cert/compose?page=abc", "application/json",
		strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestComposeHonorsAcceptHeader(t *testing.T) {
	srv := NewServer(t)
	srv.AddTemplate(plato.TemplateInfo{TemplateID: "cert"})
	srv.SetComposeOutput([]byte("png"), "")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/template/cert/compose",
		strings.NewReader("{}"))
	require.NoError(t, err)
	req.Header.Set("Accept", "image/png")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}
