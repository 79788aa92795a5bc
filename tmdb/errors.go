package tmdb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/s0up4200/reelscout/catalog"
)

// statusPayload is the error envelope TMDB returns, sometimes with HTTP 200.
type statusPayload struct {
	Success       *bool  `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// Upstream status codes that mean the request succeeded.
var successCodes = []int{1, 12, 13}

// Upstream status codes that mean the credential or session was refused.
var authCodes = []int{3, 7, 10, 14, 16, 17, 30, 33, 35, 36}

// classify inspects a response and returns nil when it carries usable data.
// The body is checked for an error envelope regardless of the HTTP status.
func classify(op string, status int, body []byte) *catalog.Error {
	var payload statusPayload
	structured := json.Unmarshal(body, &payload) == nil && payload.StatusCode != 0

	if structured && !isSuccessPayload(payload) {
		kind := catalog.KindUpstream
		if slices.Contains(authCodes, payload.StatusCode) || status == http.StatusUnauthorized || status == http.StatusForbidden {
			kind = catalog.KindAuthRejected
		}
		msg := payload.StatusMessage
		if msg == "" {
			msg = fmt.Sprintf("upstream status code %d", payload.StatusCode)
		}
		return &catalog.Error{Kind: kind, Op: op, Message: msg, StatusCode: status, Code: payload.StatusCode}
	}

	if status < 200 || status > 299 {
		kind := catalog.KindUpstream
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			kind = catalog.KindAuthRejected
		}
		return &catalog.Error{
			Kind:       kind,
			Op:         op,
			Message:    fmt.Sprintf("API request failed with status %d: %s", status, http.StatusText(status)),
			StatusCode: status,
		}
	}

	return nil
}

func isSuccessPayload(p statusPayload) bool {
	if p.Success != nil && *p.Success {
		return true
	}
	return slices.Contains(successCodes, p.StatusCode)
}
