package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// stubCustomerService satisfies ports.CustomerService with canned responses.
type stubCustomerService struct {
	customers    map[int64]*ports.CustomerResult
	lastActor    string
	lastFilename string
	lastType     string
	deleted      []int64
}

func newStubCustomerService(customers ...*ports.CustomerResult) *stubCustomerService {
	s := &stubCustomerService{customers: make(map[int64]*ports.CustomerResult)}
	for _, c := range customers {
		s.customers[c.ID] = c
	}
	return s
}

func (s *stubCustomerService) Create(_ context.Context, actor string, in ports.CustomerInput) (*ports.CustomerResult, error) {
	if _, ok := s.customers[in.ID]; ok {
		return nil, domain.ErrCustomerExists
	}
	s.lastActor = actor
	created := &ports.CustomerResult{
		ID:        in.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		LangKey:   "en",
		CreatedBy: actor,
	}
	s.customers[in.ID] = created
	return created, nil
}

func (s *stubCustomerService) Update(_ context.Context, actor string, in ports.CustomerInput) (*ports.CustomerResult, error) {
	existing, ok := s.customers[in.ID]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	s.lastActor = actor
	updated := *existing
	updated.FirstName = in.FirstName
	return &updated, nil
}

func (s *stubCustomerService) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubCustomerService) FindByID(_ context.Context, id int64) (*ports.CustomerResult, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (s *stubCustomerService) FindAll(_ context.Context, page, limit int) ([]*ports.CustomerResult, int64, error) {
	results := make([]*ports.CustomerResult, 0, len(s.customers))
	for _, c := range s.customers {
		results = append(results, c)
	}
	return results, int64(len(results)), nil
}

func (s *stubCustomerService) UploadImage(_ context.Context, actor string, id int64,
	filename, contentType string, reader io.Reader, size int64) (*ports.CustomerResult, error) {

	existing, ok := s.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	if _, err := io.ReadAll(reader); err != nil {
		return nil, err
	}
	s.lastActor, s.lastFilename, s.lastType = actor, filename, contentType
	updated := *existing
	updated.ImageURL = "http://storage.local/customersimages/7.png"
	return &updated, nil
}

func TestCustomerHandler_Create(t *testing.T) {
	svc := newStubCustomerService()
	h := NewCustomerHandler(svc)

	c, rec := newEchoContext(http.MethodPost, "/api/customers",
		`{"id":7,"first_name":"Grace","last_name":"Hopper","email":"grace@example.com"}`)
	asPrincipal(c, "bob")

	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp customerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != 7 || resp.FirstName != "Grace" {
		t.Errorf("response: %+v", resp)
	}
	if svc.lastActor != "bob" {
		t.Errorf("actor = %q", svc.lastActor)
	}
}

func TestCustomerHandler_Create_Validation(t *testing.T) {
	h := NewCustomerHandler(newStubCustomerService())

	cases := []struct {
		name string
		body string
	}{
		{"missing id", `{"first_name":"Grace"}`},
		{"zero id", `{"id":0,"first_name":"Grace"}`},
		{"missing first name", `{"id":7}`},
		{"bad email", `{"id":7,"first_name":"Grace","email":"nope"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newEchoContext(http.MethodPost, "/api/customers", tc.body)
			asPrincipal(c, "bob")

			err := h.Create(c)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusBadRequest {
				t.Errorf("got %v, want 400", err)
			}
		})
	}
}

func TestCustomerHandler_GetAndDelete(t *testing.T) {
	svc := newStubCustomerService(&ports.CustomerResult{ID: 7, FirstName: "Grace"})
	h := NewCustomerHandler(svc)

	c, rec := newEchoContext(http.MethodGet, "/api/customers/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}

	c, _ = newEchoContext(http.MethodGet, "/api/customers/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: got %v, want 400", err)
	}

	c, rec = newEchoContext(http.MethodDelete, "/api/customers/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != 7 {
		t.Errorf("deleted = %v", svc.deleted)
	}
}

func multipartImageRequest(t *testing.T, target, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestCustomerHandler_UploadImage(t *testing.T) {
	svc := newStubCustomerService(&ports.CustomerResult{ID: 7, FirstName: "Grace"})
	h := NewCustomerHandler(svc)

	e := echo.New()
	req := multipartImageRequest(t, "/api/customers/7/image", "image", "avatar.png", "image/png", []byte("png-bytes"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	asPrincipal(c, "bob")

	if err := h.UploadImage(c); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp customerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ImageURL == "" {
		t.Error("image url missing from response")
	}
	if svc.lastFilename != "avatar.png" || svc.lastType != "image/png" {
		t.Errorf("filename=%q type=%q", svc.lastFilename, svc.lastType)
	}
}

func TestCustomerHandler_UploadImage_Rejections(t *testing.T) {
	svc := newStubCustomerService(&ports.CustomerResult{ID: 7})
	h := NewCustomerHandler(svc)
	e := echo.New()

	// No multipart body at all.
	req := httptest.NewRequest(http.MethodPost, "/api/customers/7/image", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	asPrincipal(c, "bob")
	err := h.UploadImage(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("missing file: got %v, want 400", err)
	}

	// Empty file.
	req = multipartImageRequest(t, "/api/customers/7/image", "image", "empty.png", "image/png", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	asPrincipal(c, "bob")
	err = h.UploadImage(c)
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("empty file: got %v, want 400", err)
	}

	// Unknown customer surfaces the domain error for the error handler.
	req = multipartImageRequest(t, "/api/customers/404/image", "image", "a.png", "image/png", []byte("a"))
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("404")
	asPrincipal(c, "bob")
	if err := h.UploadImage(c); err != domain.ErrCustomerNotFound {
		t.Errorf("unknown customer: got %v", err)
	}
}
