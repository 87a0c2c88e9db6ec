package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/spiceroute/storefront/internal/catalog"
)

// IndexMenu pushes the static catalog into the menu index so the search
// endpoint works against the same data the menu pages serve.
func IndexMenu(ctx context.Context, client *elasticsearch.Client, index string, cat *catalog.Catalog) error {
	for _, item := range cat.Items() {
		body, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("es: marshal item %d: %w", item.ID, err)
		}
		res, err := client.Index(
			index,
			bytes.NewReader(body),
			client.Index.WithContext(ctx),
			client.Index.WithDocumentID(strconv.Itoa(item.ID)),
		)
		if err != nil {
			return fmt.Errorf("es: index item %d: %w", item.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("es: index item %d: %s", item.ID, res.Status())
		}
	}
	return nil
}

// SearchMenu runs a fuzzy multi-field query over the menu index.
func SearchMenu(ctx context.Context, client *elasticsearch.Client, index, query string, from, size int) (int64, []catalog.Item, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description", "tags"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("es: search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source catalog.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode response: %w", err)
	}

	items := make([]catalog.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}
