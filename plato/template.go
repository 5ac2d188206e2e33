package plato

// TemplateInfo describes a template stored on the Plato service.
type TemplateInfo struct {
	// TemplateID is the unique identifier of the template.
	TemplateID string `json:"template_id"`
	// Schema is the JSON schema describing the fields the template
	// expects at compose time.
	Schema map[string]any `json:"template_schema"`
	// Type is the MIME type the template renders to by default.
	Type string `json:"type"`
	// Metadata holds resource-owner defined properties set at template
	// conception.
	Metadata map[string]any `json:"metadata"`
	// Tags classify the template and can be used to filter listings.
	Tags []string `json:"tags"`
}

// ComposeResult is the outcome of a compose or example request: the raw
// file bytes together with the content type the service declared.
type ComposeResult struct {
	Content     []byte
	ContentType string
}
