// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	service "github.com/okian/tcgprice/internal/app"
	"github.com/okian/tcgprice/pkg/logger"
)

const (
	uploadField   = "file"
	imageTypePfx  = "image/"
	multipartSlop = 1 << 20
)

// CardDependencies defines the image-driven operations.
type CardDependencies interface {
	IdentifyCard(ctx context.Context, image []byte, mimeType string) (service.CardIdentification, error)
	CheckPrice(ctx context.Context, image []byte, mimeType string) (service.PriceCheck, error)
}

// CardHandler handles photo uploads.
type CardHandler struct {
	deps     CardDependencies
	maxBytes int64
	logger   logger.Logger
}

// NewCardHandler creates a new card handler.
func NewCardHandler(deps CardDependencies, maxBytes int64, l logger.Logger) *CardHandler {
	return &CardHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

// HandleIdentify handles POST /api/identify-card requests.
func (h *CardHandler) HandleIdentify(w http.ResponseWriter, r *http.Request) {
	const op = "api.identify_card"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	image, mimeType, err := h.readImage(w, r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	ident, err := h.deps.IdentifyCard(r.Context(), image, mimeType)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ident)
}

// HandleCheckPrice handles POST /api/check-price requests.
func (h *CardHandler) HandleCheckPrice(w http.ResponseWriter, r *http.Request) {
	const op = "api.check_price"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	image, mimeType, err := h.readImage(w, r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	check, err := h.deps.CheckPrice(r.Context(), image, mimeType)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// readImage extracts the multipart "file" part and checks it declares an
// image content type.
func (h *CardHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartSlop)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", ErrTooLarge
		}
		return nil, "", WrapKind("parse upload", ErrBadRequest, err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, "", ErrMissingFile
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}
	if !strings.HasPrefix(strings.ToLower(mimeType), imageTypePfx) {
		return nil, "", ErrNotImage
	}

	image, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return nil, "", WrapKind("read upload", ErrBadRequest, err)
	}
	if int64(len(image)) > h.maxBytes {
		return nil, "", ErrTooLarge
	}
	if len(image) == 0 {
		return nil, "", NewKind("read upload", ErrMissingFile)
	}
	return image, mimeType, nil
}

func (h *CardHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
	}
	writeError(w, status, code, Wrap(op, err))
}
