package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/internal/catalog"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
)

type seedRow struct {
	Kind   string
	Key    string
	Status string
}

const (
	statusCreated = "created"
	statusExists  = "exists"
)

type seeder struct {
	catalog catalog.Service
	admins  admins.Service
}

// run is safe to repeat: categories are matched by slug and products by
// name inside their category.
func (s *seeder) run(ctx context.Context, adminUser, adminPassword string) ([]seedRow, error) {
	var rows []seedRow

	for _, in := range seedCategories {
		status := statusExists
		if _, err := s.catalog.GetCategory(ctx, in.Slug); err != nil {
			if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return rows, fmt.Errorf("lookup category %s: %w", in.Slug, err)
			}
			if _, err := s.catalog.CreateCategory(ctx, in); err != nil {
				return rows, fmt.Errorf("create category %s: %w", in.Slug, err)
			}
			status = statusCreated
		}
		rows = append(rows, seedRow{Kind: "category", Key: in.Slug, Status: status})
	}

	existing := map[string]bool{}
	loaded := map[string]bool{}
	for _, in := range seedProducts {
		if !loaded[in.Category] {
			products, err := s.catalog.ListProducts(ctx, catalog.ProductFilter{Category: in.Category})
			if err != nil {
				return rows, fmt.Errorf("list products %s: %w", in.Category, err)
			}
			loaded[in.Category] = true
			for _, p := range products {
				existing[productKey(p.Category, p.Name)] = true
			}
		}

		key := productKey(in.Category, in.Name)
		status := statusExists
		if !existing[key] {
			if _, err := s.catalog.CreateProduct(ctx, in); err != nil {
				return rows, fmt.Errorf("create product %s: %w", in.Name, err)
			}
			existing[key] = true
			status = statusCreated
		}
		rows = append(rows, seedRow{Kind: "product", Key: in.Category + "/" + in.Name, Status: status})
	}

	if s.admins != nil {
		created, err := s.admins.EnsureDefaultAdmin(ctx, adminUser, adminPassword)
		if err != nil {
			return rows, fmt.Errorf("ensure admin: %w", err)
		}
		status := statusExists
		if created {
			status = statusCreated
		}
		rows = append(rows, seedRow{Kind: "admin", Key: adminUser, Status: status})
	}

	return rows, nil
}

func productKey(category, name string) string {
	return category + "|" + strings.ToLower(strings.TrimSpace(name))
}
