package handle_resources

import (
	"context"
	"net/http"

	"github.com/KincaidYang/whoisresolver/resolver"
	"github.com/KincaidYang/whoisresolver/server_lists"
	"github.com/KincaidYang/whoisresolver/utils"
	"github.com/KincaidYang/whoisresolver/whois_adapters"
	"github.com/KincaidYang/whoisresolver/whois_parsers"
	"github.com/KincaidYang/whoisresolver/whois_tools"
	"github.com/pkg/errors"
)

// errorTypeOf maps a lookup failure to the HTTP error reported for it.
func errorTypeOf(err error) utils.ErrorType {
	var (
		invalid     *resolver.InvalidKeyError
		noServer    *server_lists.ServerNotFoundError
		noInterface *whois_adapters.NoInterfaceError
		web         *whois_adapters.WebInterfaceError
		unsupported *whois_parsers.UnsupportedPropertyError
		conn        *whois_tools.ConnectionError
		transport   *whois_tools.TransportError
	)
	switch {
	case errors.As(err, &invalid), errors.As(err, &unsupported):
		return utils.ErrorTypeBadRequest
	case errors.As(err, &noServer), errors.As(err, &noInterface):
		return utils.ErrorTypeNotFound
	case errors.As(err, &web):
		return utils.ErrorTypeNotImplemented
	case errors.Is(err, context.DeadlineExceeded), whois_tools.IsTimeout(err):
		return utils.ErrorTypeGatewayTimeout
	case errors.As(err, &conn), errors.As(err, &transport):
		return utils.ErrorTypeBadGateway
	}
	return utils.ErrorTypeInternalServer
}

// handleQueryError writes the error response for err. Nothing is written
// when the client itself went away.
func (h *Handler) handleQueryError(w http.ResponseWriter, r *http.Request, key string, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		h.log.Debugf("Lookup of %s canceled by client", key)
		return
	}
	errorType := errorTypeOf(err)
	if utils.StatusCode(errorType) >= http.StatusInternalServerError {
		h.log.Warnf("Lookup of %s failed: %v", key, err)
	}
	utils.HandleHTTPError(w, errorType, err.Error())
}
