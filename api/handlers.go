package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/modernice/zipdoc"
	"github.com/modernice/zipdoc/archive"
	"github.com/modernice/zipdoc/generate"
)

const (
	noUploadMessage = "Please upload a ZIP file to proceed."
	noFilesMessage  = "No files found in the uploaded ZIP."
)

var errNoUpload = errors.New("no upload")

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// DocumentationResponse is the body of POST /api/documentation.
type DocumentationResponse struct {
	Files    []FileReport      `json:"files"`
	Rejected []RejectedEntry   `json:"rejected"`
	Notices  []generate.Notice `json:"notices"`
	Filename string            `json:"filename"`
	Markdown string            `json:"markdown"`
}

// FileReport is the outcome for a single file of an upload.
type FileReport struct {
	Path  string `json:"path"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// RejectedEntry is an archive entry that was not extracted.
type RejectedEntry struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

func (s *Server) handleForm(c echo.Context) error {
	p := newPage()
	p.notice(generate.Info, noUploadMessage)
	return c.Render(http.StatusOK, pageTemplate, p)
}

func (s *Server) handleSubmit(c echo.Context) error {
	p := newPage()

	data, err := readUpload(c)
	if err != nil {
		if !errors.Is(err, errNoUpload) {
			s.log.Debug("Invalid form submission", "error", err)
		}
		p.notice(generate.Info, noUploadMessage)
		return c.Render(http.StatusOK, pageTemplate, p)
	}

	var notices []generate.Notice
	res, err := s.document(c, data, func(n generate.Notice) {
		notices = append(notices, n)
	})

	var archiveErr *archive.Error
	switch {
	case errors.Is(err, archive.ErrEmpty):
		p.rejected(res.Rejected)
		p.notice(generate.Warning, noFilesMessage)
		return c.Render(http.StatusOK, pageTemplate, p)
	case errors.As(err, &archiveErr):
		p.notice(generate.Error, fmt.Sprintf("The uploaded file is not a valid ZIP archive: %v", archiveErr.Err))
		return c.Render(http.StatusBadRequest, pageTemplate, p)
	case err != nil:
		s.log.Error("Failed to generate documentation", "error", err, "request", requestID(c))
		p.notice(generate.Error, fmt.Sprintf("Failed to generate documentation: %v", err))
		return c.Render(http.StatusInternalServerError, pageTemplate, p)
	}

	p.rejected(res.Rejected)
	p.Notices = append(p.Notices, notices...)
	p.offer(res.Document)

	return c.Render(http.StatusOK, pageTemplate, p)
}

func (s *Server) handleDocumentation(c echo.Context) error {
	res, notices, err := s.documentUpload(c)
	if err != nil {
		return err
	}

	resp := DocumentationResponse{
		Files:    make([]FileReport, 0, len(res.Report.Entries)),
		Rejected: make([]RejectedEntry, 0, len(res.Rejected)),
		Notices:  notices,
		Filename: generate.Filename,
		Markdown: res.Document.Markdown(),
	}

	for _, e := range res.Report.Entries {
		r := FileReport{Path: e.Path, OK: e.OK()}
		if e.Err != nil {
			r.Error = e.Err.Error()
		}
		resp.Files = append(resp.Files, r)
	}

	for _, r := range res.Rejected {
		resp.Rejected = append(resp.Rejected, RejectedEntry{Name: r.Name, Reason: r.Reason})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDownload(c echo.Context) error {
	res, _, err := s.documentUpload(c)
	if err != nil {
		return err
	}

	if res.Document.Empty() {
		return NewUnprocessableError("EMPTY_DOCUMENT", "documentation could not be generated for any file")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", generate.Filename))

	return c.Blob(http.StatusOK, generate.MIMEType+"; charset=utf-8", []byte(res.Document.Markdown()))
}

// documentUpload documents the upload of an API request and maps failures to
// an [APIError].
func (s *Server) documentUpload(c echo.Context) (*zipdoc.Result, []generate.Notice, error) {
	data, err := readUpload(c)
	if errors.Is(err, errNoUpload) {
		return nil, nil, NewMissingFileError(FormField)
	}
	if err != nil {
		return nil, nil, NewBadRequestError("invalid multipart form", err)
	}

	var notices []generate.Notice
	res, err := s.document(c, data, func(n generate.Notice) {
		notices = append(notices, n)
	})

	var archiveErr *archive.Error
	switch {
	case errors.Is(err, archive.ErrEmpty):
		return nil, nil, NewUnprocessableError("NO_FILES", noFilesMessage)
	case errors.As(err, &archiveErr):
		return nil, nil, NewBadRequestError("the uploaded file is not a valid ZIP archive", archiveErr)
	case err != nil:
		return nil, nil, NewInternalError("failed to generate documentation", err)
	}

	if notices == nil {
		notices = []generate.Notice{}
	}

	return res, notices, nil
}

func (s *Server) document(c echo.Context, data []byte, onNotice func(generate.Notice)) (*zipdoc.Result, error) {
	extractOpts := s.extractOpts
	if id := requestID(c); id != "" {
		extractOpts = append([]archive.Option{archive.Prefix(fmt.Sprintf("%s%s-", archive.DefaultPrefix, id))}, extractOpts...)
	}

	genOpts := append(append([]generate.Option(nil), s.genOpts...), generate.OnNotice(onNotice))

	return s.docs.Document(
		c.Request().Context(),
		data,
		zipdoc.ExtractWith(extractOpts...),
		zipdoc.GenerateWith(genOpts...),
	)
}

func readUpload(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile(FormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errNoUpload
	}
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if len(data) == 0 {
		return nil, errNoUpload
	}

	return data, nil
}
