package client

import (
	"encoding/json"
	"fmt"

	"frontdesk/pkg/model"
)

// decodePage accepts the three list shapes served by the backends: a Spring
// page ({content, totalPages, ...}), {data, pagination} and a bare array.
func decodePage[T any](resp *Response, page, limit int) (*model.Page[T], error) {
	out := &model.Page[T]{Page: page, Limit: limit, TotalPages: 1}

	trimmed := firstNonSpace(resp.Body)
	if trimmed == '[' {
		if err := json.Unmarshal(resp.Body, &out.Items); err != nil {
			return nil, fmt.Errorf("could not decode list: %w", err)
		}
		out.Total = int64(len(out.Items))
		return out, nil
	}

	var wrapper struct {
		Content       json.RawMessage `json:"content"`
		TotalPages    int             `json:"totalPages"`
		TotalElements int64           `json:"totalElements"`
		Data          json.RawMessage `json:"data"`
		Pagination    *struct {
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			Total      int64 `json:"total"`
			Pages      int   `json:"pages"`
			TotalPages int   `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode paginated response: %w", err)
	}

	switch {
	case len(wrapper.Content) > 0:
		if err := json.Unmarshal(wrapper.Content, &out.Items); err != nil {
			return nil, fmt.Errorf("could not decode page content: %w", err)
		}
		out.Total = wrapper.TotalElements
		if wrapper.TotalPages > 0 {
			out.TotalPages = wrapper.TotalPages
		}
	case len(wrapper.Data) > 0:
		if err := json.Unmarshal(wrapper.Data, &out.Items); err != nil {
			return nil, fmt.Errorf("could not decode page data: %w", err)
		}
		out.Total = int64(len(out.Items))
		if p := wrapper.Pagination; p != nil {
			out.Total = p.Total
			if p.Pages > 0 {
				out.TotalPages = p.Pages
			} else if p.TotalPages > 0 {
				out.TotalPages = p.TotalPages
			}
		}
	}

	if out.Items == nil {
		out.Items = []T{}
	}
	return out, nil
}

func firstNonSpace(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return c
		}
	}
	return 0
}
