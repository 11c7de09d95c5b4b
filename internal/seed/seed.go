// Package seed holds the fixed catalog and blog data sets used to reset a
// store to a known state.
package seed

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/model"
)

//go:embed data/*.json
var data embed.FS

// Products returns a fresh copy of the catalog data set stamped with now.
func Products(now time.Time) ([]model.Product, error) {
	var products []model.Product
	if err := load("data/products.json", &products); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		products[i].UpdatedAt = products[i].CreatedAt
	}
	return products, nil
}

// Posts returns a fresh copy of the blog data set stamped with now. Earlier
// entries are newer.
func Posts(now time.Time) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	if err := load("data/blog.json", &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		posts[i].UpdatedAt = posts[i].CreatedAt
	}
	return posts, nil
}

func load(name string, dst any) error {
	raw, err := data.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
