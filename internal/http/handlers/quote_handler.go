// README: Quote handler: price and driver shortlist for one shipment.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"freight/internal/pipeline"
)

type Quoter interface {
	Run(ctx context.Context, raw pipeline.RawRequest) (pipeline.Result, error)
}

type QuoteHandler struct {
	quoter Quoter
}

func NewQuoteHandler(q Quoter) *QuoteHandler {
	return &QuoteHandler{quoter: q}
}

// param accepts a JSON string or number and keeps its text form; null and
// absent both read as empty.
type param string

func (p *param) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = param(s)
		return nil
	}
	if string(b) == "null" {
		*p = ""
		return nil
	}
	*p = param(b)
	return nil
}

type quoteBody struct {
	From   param `json:"from"`
	To     param `json:"to"`
	Weight param `json:"weight"`
	Volume param `json:"volume"`
}

// Predict serves GET with query parameters and POST with a JSON body. A POST
// body that is not a JSON object is treated as carrying no parameters.
func (h *QuoteHandler) Predict(c *gin.Context) {
	var raw pipeline.RawRequest
	if c.Request.Method == http.MethodPost {
		var body quoteBody
		if err := json.NewDecoder(c.Request.Body).Decode(&body); err == nil {
			raw = pipeline.RawRequest{
				From:   string(body.From),
				To:     string(body.To),
				Weight: string(body.Weight),
				Volume: string(body.Volume),
			}
		}
	} else {
		raw = pipeline.RawRequest{
			From:   c.Query("from"),
			To:     c.Query("to"),
			Weight: c.Query("weight"),
			Volume: c.Query("volume"),
		}
	}

	res, err := h.quoter.Run(c.Request.Context(), raw)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res.Response())
}
