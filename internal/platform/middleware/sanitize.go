// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/listify/internal/platform/apperr"
	"github.com/taibuivan/listify/internal/platform/respond"
)

// maxSanitizedBody bounds the JSON bodies read into memory for cleaning.
const maxSanitizedBody = 1 << 20

/*
SanitizeJSON strips markup from every string of a JSON write request.

Description: Titles, notes, tags and detail fields are user supplied and
rendered by clients, so tags are removed with bluemonday's strict policy and
entities are unescaped again so "Tom & Jerry" survives as typed. Numbers are
kept verbatim. Requests without a JSON body pass through untouched.
*/
func SanitizeJSON() func(http.Handler) http.Handler {
	policy := bluemonday.StrictPolicy()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !hasJSONBody(request) {
				next.ServeHTTP(writer, request)
				return
			}

			raw, err := io.ReadAll(io.LimitReader(request.Body, maxSanitizedBody+1))
			if err != nil {
				respond.Error(writer, request, apperr.ValidationError("Request body could not be read"))
				return
			}
			if len(raw) > maxSanitizedBody {
				respond.Error(writer, request, apperr.ValidationError("Request body is too large"))
				return
			}
			if len(bytes.TrimSpace(raw)) == 0 {
				request.Body = io.NopCloser(bytes.NewReader(raw))
				next.ServeHTTP(writer, request)
				return
			}

			decoder := json.NewDecoder(bytes.NewReader(raw))
			decoder.UseNumber()

			var body any
			if err := decoder.Decode(&body); err != nil {
				respond.Error(writer, request, apperr.ValidationError("Malformed JSON body"))
				return
			}

			cleaned, err := json.Marshal(sanitizeValue(policy, body))
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			request.Body = io.NopCloser(bytes.NewReader(cleaned))
			request.ContentLength = int64(len(cleaned))
			next.ServeHTTP(writer, request)
		})
	}
}

func hasJSONBody(request *http.Request) bool {
	switch request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	if request.Body == nil || request.Body == http.NoBody {
		return false
	}

	contentType := request.Header.Get("Content-Type")
	return contentType == "" || strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

// sanitizeValue walks decoded JSON and cleans every string in place.
func sanitizeValue(policy *bluemonday.Policy, value any) any {
	switch typed := value.(type) {
	case string:
		return html.UnescapeString(policy.Sanitize(typed))
	case map[string]any:
		for key, item := range typed {
			typed[key] = sanitizeValue(policy, item)
		}
		return typed
	case []any:
		for i, item := range typed {
			typed[i] = sanitizeValue(policy, item)
		}
		return typed
	default:
		return value
	}
}
