// Package platotest provides an in-process fake of the Plato templating
// service for tests. It implements the wire contract the plato.Client
// speaks: template listing and lookup, multipart create/update, detail
// updates, and compose/example rendering with canned output.
package platotest

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/vizidox/plato-client-go/plato"
)

// Server is a fake templating service listening on a local port.
type Server struct {
	// URL is the base address of the fake service, e.g. "http://127.0.0.1:49152".
	URL string

	app *fiber.App
	ln  net.Listener

	mu           sync.RWMutex
	templates    map[string]plato.TemplateInfo
	composed     []byte
	composedType string
}

// New starts a fake templating service on a random local port. Callers
// must Close it when done.
func New() (*Server, error) {
	s := &Server{
		templates: make(map[string]plato.TemplateInfo),
		composed:  []byte("%PDF-1.4 platotest"),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})
	s.routes()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("platotest: listen: %w", err)
	}
	s.ln = ln
	s.URL = "http://" + ln.Addr().String()

	go func() {
		_ = s.app.Listener(ln)
	}()
	return s, nil
}

// NewServer starts a fake templating service and registers its shutdown
// with the test's cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s, err := New()
	if err != nil {
		t.Fatalf("platotest: start server: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Close shuts the fake service down.
func (s *Server) Close() error {
	return s.app.Shutdown()
}

// AddTemplate seeds a template into the fake store.
func (s *Server) AddTemplate(info plato.TemplateInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[info.TemplateID] = info
}

// SetComposeOutput replaces the canned bytes returned by compose and
// example requests.
func (s *Server) SetComposeOutput(content []byte, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composed = content
	s.composedType = contentType
}

// Template returns the stored template and whether it exists. Useful for
// asserting the effects of create/update calls.
func (s *Server) Template(id string) (plato.TemplateInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.templates[id]
	return info, ok
}

func (s *Server) routes() {
	s.app.Get("/templates/", s.handleList)
	s.app.Get("/templates/:id", s.handleGet)
	s.app.Post("/template/create", s.handleCreate)
	s.app.Put("/template/:id/update", s.handleUpdate)
	s.app.Patch("/template/:id/update_details", s.handleUpdateDetails)
	s.app.Post("/template/:id/compose", s.handleCompose)
	s.app.Get("/template/:id/example", s.handleExample)
}

func (s *Server) handleList(c *fiber.Ctx) error {
	var tags []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("tags") {
		tags = append(tags, string(raw))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]plato.TemplateInfo, 0, len(s.templates))
	for _, info := range s.templates {
		if hasAllTags(info.Tags, tags) {
			matched = append(matched, info)
		}
	}
	return c.JSON(matched)
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	s.mu.RLock()
	info, ok := s.templates[c.Params("id")]
	s.mu.RUnlock()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "template not found")
	}
	return c.JSON(info)
}

func (s *Server) handleCreate(c *fiber.Ctx) error {
	info, err := parseTemplateUpload(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[info.TemplateID]; exists {
		return fiber.NewError(fiber.StatusConflict, "template already exists")
	}
	s.templates[info.TemplateID] = info
	return c.Status(fiber.StatusCreated).JSON(info)
}

func (s *Server) handleUpdate(c *fiber.Ctx) error {
	id := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return fiber.NewError(fiber.StatusNotFound, "template not found")
	}

	info, err := parseTemplateUpload(c)
	if err != nil {
		return err
	}
	info.TemplateID = id
	s.templates[id] = info
	return c.JSON(info)
}

func (s *Server) handleUpdateDetails(c *fiber.Ctx) error {
	id := c.Params("id")

	var info plato.TemplateInfo
	if err := json.Unmarshal(c.Body(), &info); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid template details")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return fiber.NewError(fiber.StatusNotFound, "template not found")
	}
	info.TemplateID = id
	s.templates[id] = info
	return c.JSON(info)
}

func (s *Server) handleCompose(c *fiber.Ctx) error {
	if err := validateRenderQuery(c); err != nil {
		return err
	}

	s.mu.RLock()
	info, ok := s.templates[c.Params("id")]
	composed, composedType := s.composed, s.composedType
	s.mu.RUnlock()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "template not found")
	}

	var data map[string]any
	if err := json.Unmarshal(c.Body(), &data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "compose data must be a JSON object")
	}

	c.Set("Content-Type", renderContentType(c, info, composedType))
	return c.Send(composed)
}

func (s *Server) handleExample(c *fiber.Ctx) error {
	if err := validateRenderQuery(c); err != nil {
		return err
	}

	s.mu.RLock()
	info, ok := s.templates[c.Params("id")]
	composed, composedType := s.composed, s.composedType
	s.mu.RUnlock()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "template not found")
	}

	c.Set("Content-Type", renderContentType(c, info, composedType))
	return c.Send(composed)
}

// parseTemplateUpload validates the zipfile + template_details multipart
// payload shared by create and update.
func parseTemplateUpload(c *fiber.Ctx) (plato.TemplateInfo, error) {
	var info plato.TemplateInfo

	file, err := c.FormFile("zipfile")
	if err != nil || file.Size == 0 {
		return info, fiber.NewError(fiber.StatusBadRequest, "missing or empty zipfile")
	}

	details := c.FormValue("template_details")
	if details == "" {
		return info, fiber.NewError(fiber.StatusBadRequest, "missing template_details")
	}
	if err := json.Unmarshal([]byte(details), &info); err != nil {
		return info, fiber.NewError(fiber.StatusBadRequest, "invalid template_details")
	}
	if info.TemplateID == "" {
		return info, fiber.NewError(fiber.StatusBadRequest, "template_id is required")
	}
	return info, nil
}

func validateRenderQuery(c *fiber.Ctx) error {
	for _, key := range []string{"page", "height", "width"} {
		if v := c.Query(key); v != "" {
			if _, err := strconv.Atoi(v); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, key+" must be an integer")
			}
		}
	}
	return nil
}

func renderContentType(c *fiber.Ctx, info plato.TemplateInfo, override string) string {
	if override != "" {
		return override
	}
	if accept := c.Get("Accept"); accept != "" {
		return accept
	}
	if info.Type != "" {
		return info.Type
	}
	return plato.DefaultMIMEType
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
