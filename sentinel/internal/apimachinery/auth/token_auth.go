package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gr80mcbr/lwfm"
	"github.com/gr80mcbr/lwfm/sentinel/internal/crypto"
	"github.com/pkg/errors"
)

type tokenAuthFilter struct {
	hashedToken string
}

// NewTokenAuthFilter returns a Filter that admits requests bearing the
// sentinel's API token and rejects everything else. Only a hash of the token
// is retained.
func NewTokenAuthFilter(hashedToken string) Filter {
	return &tokenAuthFilter{
		hashedToken: hashedToken,
	}
}

func (t *tokenAuthFilter) Decorate(handle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		headerValue := r.Header.Get("Authorization")
		if headerValue == "" {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&lwfm.ErrAuthentication{
					Reason: `"Authorization" header is missing.`,
				},
			)
			return
		}
		headerValueParts := strings.SplitN(
			r.Header.Get("Authorization"),
			" ",
			2,
		)
		if len(headerValueParts) != 2 || headerValueParts[0] != "Bearer" {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&lwfm.ErrAuthentication{
					Reason: `"Authorization" header is malformed.`,
				},
			)
			return
		}
		token := headerValueParts[1]
		if crypto.ShortSHA("", token) != t.hashedToken {
			t.writeResponse(
				w,
				http.StatusUnauthorized,
				&lwfm.ErrAuthentication{
					Reason: "Supplied token is invalid.",
				},
			)
			return
		}
		handle(w, r)
	}
}

func (t *tokenAuthFilter) writeResponse(
	w http.ResponseWriter,
	statusCode int,
	response interface{},
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	responseBody, ok := response.([]byte)
	if !ok {
		var err error
		if responseBody, err = json.Marshal(response); err != nil {
			log.Println(errors.Wrap(err, "error marshaling response body"))
		}
	}
	if _, err := w.Write(responseBody); err != nil {
		log.Println(errors.Wrap(err, "error writing response body"))
	}
}
