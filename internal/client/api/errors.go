package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

// statusError converts an error response into a common sentinel. Bad
// requests carry the server's message as a *common.ValidationError.
func statusError(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	switch code {
	case http.StatusBadRequest:
		return common.NewValidationError("request", payload.Error)
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("%w: status %d %s", common.ErrorInternal, code, payload.Error)
}
