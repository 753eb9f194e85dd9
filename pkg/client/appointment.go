package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"frontdesk/pkg/model"
)

type AppointmentClient struct {
	httpClient *HttpClient
}

func NewAppointmentClient(baseURL string, timeout time.Duration) *AppointmentClient {
	return &AppointmentClient{
		httpClient: NewHttpClient("appointment", baseURL, timeout),
	}
}

func (c *AppointmentClient) List(ctx context.Context, page, limit int) (*model.Page[model.Appointment], error) {
	path := fmt.Sprintf("/v1/appointments?page=%d&limit=%d", page, limit)
	resp, err := c.httpClient.Expect(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodePage[model.Appointment](resp, page, limit)
}

func (c *AppointmentClient) Book(ctx context.Context, req model.BookingRequest) (*model.Appointment, error) {
	resp, err := c.httpClient.Expect(ctx, http.MethodPost, "/v1/appointments", req)
	if err != nil {
		return nil, err
	}
	return decodeAppointment(resp)
}

func (c *AppointmentClient) Reschedule(ctx context.Context, id int64, req model.RescheduleRequest) (*model.Appointment, error) {
	path := fmt.Sprintf("/v1/appointments/%d/reschedule", id)
	resp, err := c.httpClient.Expect(ctx, http.MethodPut, path, req)
	if err != nil {
		return nil, err
	}
	return decodeAppointment(resp)
}

func (c *AppointmentClient) Cancel(ctx context.Context, id int64) (*model.Appointment, error) {
	return c.transition(ctx, id, "cancel")
}

func (c *AppointmentClient) Complete(ctx context.Context, id int64) (*model.Appointment, error) {
	return c.transition(ctx, id, "complete")
}

func (c *AppointmentClient) NoShow(ctx context.Context, id int64) (*model.Appointment, error) {
	return c.transition(ctx, id, "no-show")
}

func (c *AppointmentClient) transition(ctx context.Context, id int64, action string) (*model.Appointment, error) {
	path := fmt.Sprintf("/v1/appointments/%d/%s", id, action)
	resp, err := c.httpClient.Expect(ctx, http.MethodPut, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeAppointment(resp)
}

func decodeAppointment(resp *Response) (*model.Appointment, error) {
	var appointment model.Appointment
	if len(resp.Body) == 0 {
		return &appointment, nil
	}
	if err := resp.DecodeJSON(&appointment); err != nil {
		return nil, fmt.Errorf("could not decode appointment json: %w", err)
	}
	return &appointment, nil
}
