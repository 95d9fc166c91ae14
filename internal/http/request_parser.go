// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data. It reduces code duplication by providing reusable functions for
// JSON body decoding and query parameter extraction.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxBodySize caps request bodies; ledger payloads are small.
const maxBodySize = 1 << 20

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters, using
// the current date as defaults.
func ParseMonthParams(query url.Values) MonthParams {
	now := time.Now()
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			params.Month = m
		}
	}

	return params
}

// decodeJSON reads and decodes a JSON request body into dst. It returns a
// ready-to-write error response when the body is missing, too large, or
// malformed.
func decodeJSON(r *http.Request, dst any) *ResponseBuilder {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return BadRequestError("empty request body")
		case errors.As(err, &maxErr):
			return ErrorResponse(http.StatusRequestEntityTooLarge, "request body too large")
		default:
			return BadRequestError("malformed JSON: " + err.Error())
		}
	}

	// A second value means trailing garbage after the JSON document.
	if dec.More() {
		return BadRequestError("unexpected data after JSON body")
	}
	return nil
}
