package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"frontdesk/pkg/model"
)

type DoctorClient struct {
	httpClient *HttpClient
}

func NewDoctorClient(baseURL string, timeout time.Duration) *DoctorClient {
	return &DoctorClient{
		httpClient: NewHttpClient("doctor", baseURL, timeout),
	}
}

func (c *DoctorClient) List(ctx context.Context, page, limit int) (*model.Page[model.Doctor], error) {
	path := fmt.Sprintf("/v1/doctors?page=%d&limit=%d", page, limit)
	resp, err := c.httpClient.Expect(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodePage[model.Doctor](resp, page, limit)
}

func (c *DoctorClient) Departments(ctx context.Context) ([]string, error) {
	resp, err := c.httpClient.Expect(ctx, http.MethodGet, "/v1/departments", nil)
	if err != nil {
		return nil, err
	}
	var departments []string
	if err := resp.DecodeJSON(&departments); err != nil {
		return nil, fmt.Errorf("could not decode departments: %w", err)
	}
	return departments, nil
}
