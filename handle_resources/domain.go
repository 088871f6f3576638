package handle_resources

import (
	"fmt"
	"net/http"

	"github.com/KincaidYang/whoisresolver/utils"
	"github.com/KincaidYang/whoisresolver/whois_parsers"
	"github.com/KincaidYang/whoisresolver/whois_response"
	"github.com/pkg/errors"
)

// PropertyValue is the body of GET /{key}/{property}.
type PropertyValue struct {
	Property whois_parsers.Property `json:"property"`
	Value    any                    `json:"value"`
}

// HandleLookup answers GET /{key} with the normalized record, or with the raw
// text when ?raw=1 is set or no parsing rules exist for the server.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	resp, err := h.resolver.Lookup(r.Context(), key)
	if err != nil {
		h.handleQueryError(w, r, key, err)
		return
	}

	if isRaw(r) {
		writeRaw(w, resp)
		return
	}

	record, err := resp.Record()
	if err != nil {
		var notFound *whois_parsers.ParserNotFoundError
		if errors.As(err, &notFound) {
			writeRaw(w, resp)
			return
		}
		h.handleQueryError(w, r, key, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, record)
}

// HandleProperty answers GET /{key}/{property} with a single property.
func (h *Handler) HandleProperty(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	prop, ok := whois_parsers.ParseProperty(r.PathValue("property"))
	if !ok {
		utils.HandleHTTPError(w, utils.ErrorTypeBadRequest, "Unknown property: "+r.PathValue("property"))
		return
	}

	resp, err := h.resolver.Lookup(r.Context(), key)
	if err != nil {
		h.handleQueryError(w, r, key, err)
		return
	}
	value, err := resp.Property(prop)
	if err != nil {
		h.handleQueryError(w, r, key, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, PropertyValue{Property: prop, Value: value})
}

func isRaw(r *http.Request) bool {
	switch r.URL.Query().Get("raw") {
	case "1", "true", "yes":
		return true
	}
	return false
}

func writeRaw(w http.ResponseWriter, resp *whois_response.Response) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, resp.Content())
}
