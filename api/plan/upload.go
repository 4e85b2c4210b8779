package plan

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kilianp07/assetplan/core/tabular"
	"github.com/kilianp07/assetplan/infra/ingest"
)

// Output formats.
const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
	formatJSON = "json"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// httpError carries the status a request failure maps to.
type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(err error) error { return &httpError{status: http.StatusBadRequest, err: err} }

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var he *httpError
	if errors.As(err, &he) {
		status = he.status
	}
	if status >= 500 {
		h.log.Errorf("request failed: %v", err)
	}
	http.Error(w, err.Error(), status)
}

// readUpload parses the multipart form and reads the "file" part into a table.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (tabular.Table, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return tabular.Table{}, "", &httpError{status: http.StatusRequestEntityTooLarge, err: fmt.Errorf("upload exceeds %d bytes", mbe.Limit)}
		}
		return tabular.Table{}, "", badRequest(fmt.Errorf("invalid form: %w", err))
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return tabular.Table{}, "", badRequest(fmt.Errorf("missing file: %w", err))
	}
	defer func() { _ = file.Close() }()

	opts := h.opts.Ingest.ReadOptions()
	if s := r.FormValue("sheet"); s != "" {
		opts.Sheet = s
	}
	t, err := ingest.Read(file, hdr.Filename, opts)
	if err != nil {
		return tabular.Table{}, "", badRequest(err)
	}
	return t, hdr.Filename, nil
}

func outputFormat(r *http.Request) (string, error) {
	f := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
	switch f {
	case "":
		return formatCSV, nil
	case formatCSV, formatXLSX, formatJSON:
		return f, nil
	default:
		return "", badRequest(fmt.Errorf("unsupported format %q", f))
	}
}

func attachment(w http.ResponseWriter, name, format string) {
	switch format {
	case formatXLSX:
		w.Header().Set("Content-Type", xlsxContentType)
	case formatJSON:
		w.Header().Set("Content-Type", "application/json")
		return
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"."+format))
}
