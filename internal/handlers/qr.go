package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// JoinQR renders a PNG QR code pointing at the join page for the room's
// code. The scheme honors X-Forwarded-Proto so codes scanned behind a TLS
// proxy resolve correctly.
func (h *Handler) JoinQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "room")
	room, _, err := h.rooms.RoomByCode(r.Context(), code)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	joinURL := fmt.Sprintf("%s://%s/join/%s", scheme, r.Host, room.Code)

	qrc, err := qrcode.NewWith(joinURL,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
	)
	if err != nil {
		h.respondError(w, r, fmt.Errorf("failed to create QR code: %w", err))
		return
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopCloser{&buf},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
	)
	if err := qrc.Save(writer); err != nil {
		h.respondError(w, r, fmt.Errorf("failed to render QR code: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error("failed to write QR response", "error", err)
	}
}
