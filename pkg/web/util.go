package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/store"
)

// maxBodySize limits request bodies.
const maxBodySize = 1 << 20

var validate = validator.New()

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}

func renderNotFound(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}

func renderMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

// renderJSON renders a JSON response with the given status code and value.
func renderJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding json", "err", err)
	}
}

func renderNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// statusCode maps an error kind to an HTTP status code.
func statusCode(err error) int {
	switch proto.KindOf(err) {
	case proto.KindNotFound:
		return http.StatusNotFound
	case proto.KindForbidden:
		return http.StatusForbidden
	case proto.KindConflict:
		return http.StatusConflict
	case proto.KindValidation:
		return http.StatusBadRequest
	case proto.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// renderError renders err as a JSON error. Unclassified errors are logged
// and hidden from the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("internal error", "err", err)
		msg = http.StatusText(code)
	}
	renderJSON(w, code, errorResponse{Error: msg})
}

// decode reads a JSON body into v and validates it.
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return proto.Invalid("invalid request body: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return proto.Invalid("invalid field %q: failed on %q", fe.Field(), fe.Tag())
		}
		return proto.Invalid("invalid request body: %v", err)
	}
	return nil
}

// pathID parses the named path variable as an id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, proto.Invalid("invalid %s", name)
	}
	return id, nil
}

// pageQuery reads the offset and limit query parameters.
func pageQuery(r *http.Request) (store.Page, error) {
	var page store.Page
	q := r.URL.Query()
	for name, dst := range map[string]*int{"offset": &page.Offset, "limit": &page.Limit} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return page, proto.Invalid("invalid %s", name)
		}
		*dst = n
	}
	return page.Normalize(), nil
}
