package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/phamkhoa1373/E-commerce/pkg/errors"
)

// upstreamError matches the two error body shapes the shop backend returns:
// FastAPI-style `{"detail": "..."}` and envelope-style `{"error": {...}}`.
type upstreamError struct {
	Detail string `json:"detail"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes the body of a non-2xx response and translates
// it into an AppError preserving the upstream's semantics. The body is fully
// read and closed.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", upstream, resp.StatusCode, err)
	}

	var parsed upstreamError
	if json.Unmarshal(raw, &parsed) == nil {
		if parsed.Error != nil {
			return mapUpstreamError(resp.StatusCode, parsed.Error.Code, parsed.Error.Message, upstream)
		}
		if parsed.Detail != "" {
			return mapUpstreamError(resp.StatusCode, "", parsed.Detail, upstream)
		}
	}

	return mapUpstreamError(resp.StatusCode, "", string(raw), upstream)
}

func mapUpstreamError(status int, code, message, upstream string) error {
	qualified := fmt.Sprintf("%s: %s", upstream, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(upstream, message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusGone:
		return apperrors.Gone(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualified)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", upstream, status, message)
	default:
		errCode := code
		if errCode == "" {
			errCode = "UPSTREAM_ERROR"
		}
		return &apperrors.AppError{Code: errCode, Message: qualified, Status: status}
	}
}
