package client

import "time"

type Client struct {
	Appointments *AppointmentClient
	Patients     *PatientClient
	Doctors      *DoctorClient
	Mongo        *MongoClient
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetAppointmentClient(baseURL string, timeout time.Duration) {
	c.Appointments = NewAppointmentClient(baseURL, timeout)
}

func (c *Client) SetPatientClient(baseURL string, timeout time.Duration) {
	c.Patients = NewPatientClient(baseURL, timeout)
}

func (c *Client) SetDoctorClient(baseURL string, timeout time.Duration) {
	c.Doctors = NewDoctorClient(baseURL, timeout)
}
