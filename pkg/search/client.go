package search

import (
	"bytes"
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/pkg/errors"
)

type Config struct {
	Addresses []string
	Username  string
	Password  string
}

type Client struct {
	es *elasticsearch.Client
}

func NewClient(cfg *Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "elasticsearch client")
	}

	res, err := es.Info()
	if err != nil {
		return nil, errors.Wrap(err, "elasticsearch ping")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch ping: %s", res.Status())
	}

	return &Client{es: es}, nil
}

// Index stores one document. Callers treat failures as non-fatal.
func (c *Client) Index(ctx context.Context, index, docID string, body []byte) error {
	res, err := c.es.Index(index, bytes.NewReader(body),
		c.es.Index.WithDocumentID(docID),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrap(err, "index document")
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index document: %s", res.Status())
	}
	return nil
}
