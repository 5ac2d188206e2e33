package plato

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// DefaultMIMEType is the content type requested for composed documents
// when no explicit MIME type option is given.
const DefaultMIMEType = "application/pdf"

// Client talks to a Plato templating service. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	host          string
	maxRetries    int
	retryInterval time.Duration
	httpClient    *http.Client
	log           zerolog.Logger
	tokens        oauth2.TokenSource
}

// New creates a Client for the service at host (scheme and authority,
// e.g. "https://plato.example.com").
func New(host string, opts ...Option) *Client {
	c := &Client{
		host:          strings.TrimRight(host, "/"),
		maxRetries:    DefaultMaxRetries,
		retryInterval: defaultRetryInterval,
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Templates lists the templates stored on the service, optionally
// filtered by tags. Ordering is whatever the service returns.
func (c *Client) Templates(ctx context.Context, tags ...string) ([]TemplateInfo, error) {
	q := url.Values{}
	for _, tag := range tags {
		if tag != "" {
			q.Add("tags", tag)
		}
	}

	resp, err := c.do(ctx, apiRequest{method: http.MethodGet, path: "/templates/", query: q})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var templates []TemplateInfo
	if err := json.NewDecoder(resp.Body).Decode(&templates); err != nil {
		return nil, fmt.Errorf("plato: decode template list: %w", err)
	}
	return templates, nil
}

// Template fetches the metadata of a single template by id.
func (c *Client) Template(ctx context.Context, templateID string) (*TemplateInfo, error) {
	resp, err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/templates/" + url.PathEscape(templateID),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	return decodeTemplate(resp.Body)
}

// CreateTemplate registers a new template from a zip archive and its
// details document (schema, metadata, tags). The archive is read fully
// before the first attempt so retries resend identical bytes.
func (c *Client) CreateTemplate(ctx context.Context, archive io.Reader, details map[string]any) (*TemplateInfo, error) {
	body, contentType, err := multipartBody(archive, details)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/template/create",
		header: http.Header{"Content-Type": {contentType}},
		body:   body,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	return decodeTemplate(resp.Body)
}

// UpdateTemplate replaces the archive and details of an existing
// template.
func (c *Client) UpdateTemplate(ctx context.Context, templateID string, archive io.Reader, details map[string]any) (*TemplateInfo, error) {
	body, contentType, err := multipartBody(archive, details)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, apiRequest{
		method: http.MethodPut,
		path:   "/template/" + url.PathEscape(templateID) + "/update",
		header: http.Header{"Content-Type": {contentType}},
		body:   body,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	return decodeTemplate(resp.Body)
}

// UpdateTemplateDetails updates only the details document of an existing
// template, leaving the archive untouched.
func (c *Client) UpdateTemplateDetails(ctx context.Context, templateID string, details map[string]any) (*TemplateInfo, error) {
	body, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("plato: encode template details: %w", err)
	}

	resp, err := c.do(ctx, apiRequest{
		method: http.MethodPatch,
		path:   "/template/" + url.PathEscape(templateID) + "/update_details",
		header: http.Header{"Content-Type": {"application/json"}},
		body:   body,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	return decodeTemplate(resp.Body)
}

// Compose renders the template with the given field data and returns the
// composed file bytes together with the declared content type.
func (c *Client) Compose(ctx context.Context, templateID string, data map[string]any, opts ...ComposeOption) (*ComposeResult, error) {
	p := newComposeParams(opts)

	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("plato: encode compose data: %w", err)
	}

	resp, err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/template/" + url.PathEscape(templateID) + "/compose",
		query:  p.query(),
		header: http.Header{
			"Accept":       {p.mimeType},
			"Content-Type": {"application/json"},
		},
		body: body,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	return readComposeResult(resp, p.mimeType)
}

// TemplateExample fetches the example rendering of a template, composed
// by the service from the template's own example data.
func (c *Client) TemplateExample(ctx context.Context, templateID string, opts ...ComposeOption) (*ComposeResult, error) {
	p := newComposeParams(opts)

	resp, err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/template/" + url.PathEscape(templateID) + "/example",
		query:  p.query(),
		header: http.Header{"Accept": {p.mimeType}},
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}
	return readComposeResult(resp, p.mimeType)
}

// ComposeToFile composes the template and writes the result to path,
// overwriting any existing file.
func (c *Client) ComposeToFile(ctx context.Context, templateID string, data map[string]any, path string, opts ...ComposeOption) error {
	result, err := c.Compose(ctx, templateID, data, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, result.Content, 0o644); err != nil {
		return fmt.Errorf("plato: write composed file: %w", err)
	}
	return nil
}

// ComposeOption tunes a compose or example request.
type ComposeOption func(*composeParams)

type composeParams struct {
	mimeType string
	page     *int
	height   *int
	width    *int
}

// WithMIMEType requests the composed document in the given MIME type
// instead of the default application/pdf.
func WithMIMEType(mimeType string) ComposeOption {
	return func(p *composeParams) {
		if mimeType != "" {
			p.mimeType = mimeType
		}
	}
}

// WithPage restricts composition to a single page of the template.
func WithPage(page int) ComposeOption {
	return func(p *composeParams) {
		p.page = &page
	}
}

// WithResize renders the document resized to the given height and width.
func WithResize(height, width int) ComposeOption {
	return func(p *composeParams) {
		p.height = &height
		p.width = &width
	}
}

func newComposeParams(opts []ComposeOption) composeParams {
	p := composeParams{mimeType: DefaultMIMEType}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p composeParams) query() url.Values {
	q := url.Values{}
	if p.page != nil {
		q.Set("page", strconv.Itoa(*p.page))
	}
	if p.height != nil {
		q.Set("height", strconv.Itoa(*p.height))
	}
	if p.width != nil {
		q.Set("width", strconv.Itoa(*p.width))
	}
	return q
}

// multipartBody builds the zipfile + template_details multipart payload
// shared by create and update.
func multipartBody(archive io.Reader, details map[string]any) ([]byte, string, error) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, "", fmt.Errorf("plato: encode template details: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("zipfile", "template.zip")
	if err != nil {
		return nil, "", fmt.Errorf("plato: build multipart body: %w", err)
	}
	if _, err := io.Copy(part, archive); err != nil {
		return nil, "", fmt.Errorf("plato: read template archive: %w", err)
	}
	if err := w.WriteField("template_details", string(detailsJSON)); err != nil {
		return nil, "", fmt.Errorf("plato: build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("plato: build multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func decodeTemplate(r io.Reader) (*TemplateInfo, error) {
	var t TemplateInfo
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("plato: decode template: %w", err)
	}
	return &t, nil
}

func readComposeResult(resp *http.Response, requested string) (*ComposeResult, error) {
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("plato: read composed document: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = requested
	}
	return &ComposeResult{Content: content, ContentType: contentType}, nil
}

// readAPIError turns a non-2xx response into an *APIError, capping the
// captured body at 64 KiB.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
