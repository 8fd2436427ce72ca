package contact

import (
	"net/http"
	"unicode/utf8"

	"github.com/Lucascluz/folio/internal/config"
	"github.com/Lucascluz/folio/internal/ip"
	"github.com/Lucascluz/folio/internal/logger"
	"github.com/Lucascluz/folio/internal/metrics"
	"github.com/Lucascluz/folio/internal/transport"
	"github.com/Lucascluz/folio/internal/validation"
)

const (
	// DisabledMessage is served while the form is in maintenance mode.
	DisabledMessage = "Contact form is temporarily disabled. Please use social media or email to reach me."

	successMessage = "Thank you for your message. I will get back to you within 24 hours."

	previewLength = 100
)

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler accepts POST /api/contact submissions.
type Handler struct {
	allowedOrigins []string
	maxBodyBytes   int64
	notifier       Notifier
	extractor      *ip.Extractor
}

func NewHandler(cfg config.ContactConfig, notifier Notifier, extractor *ip.Extractor) *Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.DefaultMaxBodyBytes
	}
	return &Handler{
		allowedOrigins: cfg.AllowedOrigins,
		maxBodyBytes:   maxBody,
		notifier:       notifier,
		extractor:      extractor,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if errs := validation.ValidateRequest(r, h.allowedOrigins); len(errs) > 0 {
		metrics.RecordContactSubmission("invalid_request")
		transport.WriteError(w, http.StatusBadRequest, "Invalid request", errs...)
		return
	}

	var raw any
	if err := transport.ReadJSON(w, r, &raw, h.maxBodyBytes); err != nil {
		log.Debugf("undecodable contact body: %v", err)
		metrics.RecordContactSubmission("invalid_body")
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := validation.ValidateContactForm(raw)
	if !result.Valid() {
		metrics.RecordContactSubmission("invalid_form")
		transport.WriteError(w, http.StatusBadRequest, "Validation failed", result.Errors...)
		return
	}
	form := *result.Data

	// Sanitization may already have defused a payload; reject it all the same
	if suspicious(append(validation.RawStrings(raw), form.Fields()...)) {
		log.Warnw("suspicious contact submission rejected",
			"email", logger.MaskEmail(form.Email),
			"client", logger.MaskIP(h.clientKey(r)),
		)
		metrics.RecordContactSubmission("suspicious")
		transport.WriteError(w, http.StatusBadRequest, "Suspicious content detected")
		return
	}

	phone := form.Phone
	if phone == "" {
		phone = "Not provided"
	}
	log.Infow("contact form submission",
		"name", form.Name,
		"email", logger.MaskEmail(form.Email),
		"subject", form.Subject,
		"message", preview(form.Message),
		"phone", phone,
		"client", logger.MaskIP(h.clientKey(r)),
	)

	if err := h.notifier.Notify(r.Context(), form); err != nil {
		log.Errorf("contact notification failed: %v", err)
		metrics.RecordContactSubmission("notify_failed")
		transport.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	metrics.RecordContactSubmission("accepted")
	transport.WriteJSON(w, http.StatusOK, successResponse{Success: true, Message: successMessage})
}

func (h *Handler) clientKey(r *http.Request) string {
	if h.extractor == nil {
		return ip.KeyUnknown
	}
	return h.extractor.Extract(r)
}

// Preflight answers OPTIONS /api/contact.
func Preflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	h.Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusOK)
}

func suspicious(fields []string) bool {
	for _, f := range fields {
		if validation.DetectSuspiciousInput(f) {
			return true
		}
	}
	return false
}

func preview(message string) string {
	if utf8.RuneCountInString(message) <= previewLength {
		return message
	}
	return string([]rune(message)[:previewLength]) + "..."
}
