package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"contactnorm/pkg/model"
)

// APIError is a non-2xx answer from the contacts API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contacts api returned %d: %s", e.Status, e.Message)
}

// ContactsClient calls the normalize endpoints of a running server.
type ContactsClient struct {
	*HttpClient
}

func NewContactsClient(baseURL string) *ContactsClient {
	return &ContactsClient{HttpClient: NewHttpClient(baseURL)}
}

func (c *ContactsClient) NormalizePhone(ctx context.Context, phone string) (string, error) {
	var out model.NormalizePhoneResponse
	if err := c.call(ctx, "/api/v1/phones/normalize", model.NormalizePhoneRequest{Phone: phone}, &out); err != nil {
		return "", err
	}
	return out.Phone, nil
}

func (c *ContactsClient) NormalizeDOB(ctx context.Context, dob string) (string, error) {
	var out model.NormalizeDOBResponse
	if err := c.call(ctx, "/api/v1/dobs/normalize", model.NormalizeDOBRequest{DOB: dob}, &out); err != nil {
		return "", err
	}
	return out.DOB, nil
}

func (c *ContactsClient) NormalizeContacts(ctx context.Context, req model.NormalizeContactsRequest) (*model.NormalizeContactsResponse, error) {
	var out model.NormalizeContactsResponse
	if err := c.call(ctx, "/api/v1/contacts/normalize", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ContactsClient) call(ctx context.Context, path string, body, data any) error {
	resp, err := c.POST(ctx, path, body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: GetErrorMessage(resp)}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, data); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
