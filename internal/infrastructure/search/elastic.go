// Package search keeps a searchable copy of candidate profiles in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/recruitment-accounts/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// NewClient creates an Elasticsearch client with optional basic auth.
func NewClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// Elastic indexes one document per account, keyed by account id.
type Elastic struct {
	es    *elasticsearch.Client
	index string
}

func NewElastic(es *elasticsearch.Client, index string) *Elastic {
	return &Elastic{es: es, index: index}
}

// document is what gets stored; it never includes credentials.
type document struct {
	ID              string            `json:"id"`
	Email           string            `json:"email"`
	Name            string            `json:"name"`
	AdmissionNumber string            `json:"admission_number,omitempty"`
	Year            string            `json:"year,omitempty"`
	Domain          string            `json:"domain,omitempty"`
	Photo           string            `json:"photo,omitempty"`
	Resume          string            `json:"resume,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

func toDocument(p *entity.Profile) document {
	return document{
		ID:              p.ID,
		Email:           p.Email,
		Name:            p.Name,
		AdmissionNumber: p.AdmissionNumber,
		Year:            p.Year,
		Domain:          p.Domain,
		Photo:           p.Photo,
		Resume:          p.Resume,
		SocialLinks:     p.SocialLinks,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (e *Elastic) Index(ctx context.Context, p *entity.Profile) error {
	b, err := json.Marshal(toDocument(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: e.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, e.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index %s: %s", p.ID, res.Status())
	}
	return nil
}

// Remove deletes the document for id; a missing document is not an error.
func (e *Elastic) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: e.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, e.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over email, name and domain.
func (e *Elastic) Search(ctx context.Context, q string, size int) ([]entity.Profile, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name", "domain"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := e.es.Search(
		e.es.Search.WithContext(c),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string   `json:"_id"`
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Profile, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d := h.Source
		p := entity.Profile{
			ID:              h.ID,
			Email:           d.Email,
			Name:            d.Name,
			AdmissionNumber: d.AdmissionNumber,
			Year:            d.Year,
			Domain:          d.Domain,
			Photo:           d.Photo,
			Resume:          d.Resume,
			SocialLinks:     d.SocialLinks,
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, d.CreatedAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, d.UpdatedAt)
		out = append(out, p)
	}
	return out, nil
}
