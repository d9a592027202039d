package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/auro-editor/auro/internal/document"
)

const maxUploadSize = 32 << 20 // 32MB

// Handler renders a posted project blob without storing it.
type Handler struct {
	exporter *Exporter
}

func NewHandler(exporter *Exporter) *Handler {
	return &Handler{exporter: exporter}
}

// Export handles POST /export/{format}. The body is a project blob as
// produced by the JSON format.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := Format(mux.Vars(r)["format"])

	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return
	}

	d, err := document.Decode(blob)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	out, err := h.exporter.Export(format, d)
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		writeError(w, http.StatusNotImplemented, fmt.Errorf("%s: %w", format, err))
		return
	case errors.Is(err, ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("export complete", "format", format, "pages", len(d.Pages), "size", len(out))
	WriteFile(w, format, d.CurrentPage, out)
}

// WriteFile sends an export as a download.
func WriteFile(w http.ResponseWriter, f Format, page int, out []byte) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, f.Filename(page)))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
