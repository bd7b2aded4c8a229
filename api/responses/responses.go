package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// debugDetails controls whether error responses carry the message field.
// Production keeps bodies to the bare error string.
var debugDetails = false

// SetDebugDetails toggles detail exposure; call once at boot.
func SetDebugDetails(enabled bool) {
	debugDetails = enabled
}

// ErrorBody is the public error shape. Message is only populated outside
// production.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteSuccess writes the resource as the top-level JSON document.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// WriteNoContent responds with 204 and an empty body.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := ErrorBody{Error: msg}

	if debugDetails {
		if cause := typed.Unwrap(); cause != nil {
			payload.Message = cause.Error()
		}
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Details = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}

		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
