package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"frontdesk/pkg/model"
)

type PatientClient struct {
	httpClient *HttpClient
}

func NewPatientClient(baseURL string, timeout time.Duration) *PatientClient {
	return &PatientClient{
		httpClient: NewHttpClient("patient", baseURL, timeout),
	}
}

func (c *PatientClient) List(ctx context.Context, page, limit int) (*model.Page[model.Patient], error) {
	path := fmt.Sprintf("/v1/patients?page=%d&limit=%d", page, limit)
	resp, err := c.httpClient.Expect(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodePage[model.Patient](resp, page, limit)
}
