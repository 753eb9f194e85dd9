package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"frontdesk/pkg/config"
	apperrors "frontdesk/pkg/errors"
)

// ExtractPage reads the 1-based ?page= parameter. Absent means page 1.
func ExtractPage(r *http.Request) (int, error) {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid page parameter: " + s)
	}
	return config.NormalizePage(page), nil
}

// ExtractLimit reads ?limit=, capped at ceiling. Absent or non-positive means fallback.
func ExtractLimit(r *http.Request, fallback, ceiling int) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid limit parameter: " + s)
	}
	if limit <= 0 {
		return fallback, nil
	}
	return min(limit, ceiling), nil
}

func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("invalid appointment ID: " + raw)
	}
	return id, nil
}

func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is empty")
		}
		return apperrors.InvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}
