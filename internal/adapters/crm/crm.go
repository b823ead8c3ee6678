// Package crm creates leads in the CRM for settled orders.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("crm client not configured")
	ErrEmptyResponse = errors.New("crm returned no lead")
)

type Config struct {
	BaseURL     string        `env:"CRM_BASE_URL"`
	AccessToken string        `env:"CRM_ACCESS_TOKEN"`
	Timeout     time.Duration `env:"CRM_TIMEOUT" envDefault:"20s"`
}

// StatusError carries a non-2xx CRM response. RetryAfter is set from the
// Retry-After header on 429.
type StatusError struct {
	Body       string
	StatusCode int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("crm responded %d: %s", e.StatusCode, e.Body)
}

// Temporary reports responses worth retrying later: throttling and server
// failures.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type Field struct {
	Value any
	Name  string
}

type Lead struct {
	Name   string
	Phone  string
	Fields []Field
	Tags   []string
	Price  int64
}

//go:generate mockgen -source=crm.go -destination=../../mocks/crm/crm.go -package=crm
type LeadCreator interface {
	CreateLead(ctx context.Context, lead Lead) (int64, error)
}

type Client struct {
	log     *zap.Logger
	http    *http.Client
	baseURL string
	token   string
}

type option func(*Client)

func Logger(log *zap.Logger) option {
	return func(c *Client) {
		c.log = log
	}
}

func New(cfg *Config, options ...option) *Client {
	c := &Client{
		log:     zap.NewNop(),
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
	}
	for _, opt := range options {
		opt(c)
	}

	return c
}

type tValue struct {
	Value any `json:"value"`
}

type tCustomField struct {
	FieldCode string   `json:"field_code,omitempty"`
	FieldName string   `json:"field_name,omitempty"`
	Values    []tValue `json:"values"`
}

type tTag struct {
	Name string `json:"name"`
}

type tContact struct {
	CustomFields []tCustomField `json:"custom_fields_values,omitempty"`
}

type tEmbedded struct {
	Tags     []tTag     `json:"tags,omitempty"`
	Contacts []tContact `json:"contacts"`
}

type tLeadRequest struct {
	Embedded     tEmbedded      `json:"_embedded"`
	Name         string         `json:"name"`
	CustomFields []tCustomField `json:"custom_fields_values,omitempty"`
	Price        int64          `json:"price"`
}

type tLeadResponse struct {
	ID int64 `json:"id"`
}

func newLeadRequest(lead Lead) []tLeadRequest {
	req := tLeadRequest{
		Name:     lead.Name,
		Price:    lead.Price,
		Embedded: tEmbedded{Contacts: []tContact{}},
	}
	for _, f := range lead.Fields {
		req.CustomFields = append(req.CustomFields, tCustomField{FieldName: f.Name, Values: []tValue{{Value: f.Value}}})
	}
	for _, t := range lead.Tags {
		req.Embedded.Tags = append(req.Embedded.Tags, tTag{Name: t})
	}
	if lead.Phone != "" {
		req.Embedded.Contacts = append(req.Embedded.Contacts, tContact{
			CustomFields: []tCustomField{{FieldCode: "PHONE", Values: []tValue{{Value: lead.Phone}}}},
		})
	}

	return []tLeadRequest{req}
}

// CreateLead posts the lead with its contact and returns the CRM lead id.
func (c *Client) CreateLead(ctx context.Context, lead Lead) (int64, error) {
	if c.baseURL == "" {
		return 0, ErrNotConfigured
	}

	bBody, err := json.Marshal(newLeadRequest(lead))
	if err != nil {
		return 0, fmt.Errorf("failed marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v4/leads/complex", bytes.NewReader(bBody))
	if err != nil {
		return 0, fmt.Errorf("failed build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed to crm: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	bResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(bResp)}
		if resp.StatusCode == http.StatusTooManyRequests {
			if sec, err := time.ParseDuration(resp.Header.Get("Retry-After") + "s"); err == nil {
				statusErr.RetryAfter = sec
			}
		}
		c.log.Error("crm lead creation failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(bResp)),
		)
		return 0, statusErr
	}

	leads := []tLeadResponse{}
	if err := json.Unmarshal(bResp, &leads); err != nil {
		return 0, fmt.Errorf("failed unmarshal crm response: %w", err)
	}
	if len(leads) == 0 || leads[0].ID == 0 {
		return 0, ErrEmptyResponse
	}

	c.log.Info("created crm lead", zap.Int64("leadID", leads[0].ID))
	return leads[0].ID, nil
}
