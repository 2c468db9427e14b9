// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"

	"github.com/taibuivan/listify/internal/platform/validate"
)

// Service exposes the read side of the tag vocabulary.
type Service struct {
	repo Repository
}

// NewService constructs a tag [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListTags returns every known tag ordered by name.
func (service *Service) ListTags(context context.Context) ([]*Tag, error) {
	return service.repo.List(context)
}

// GetTagBySlug resolves a single tag by its slug.
func (service *Service) GetTagBySlug(context context.Context, tagSlug string) (*Tag, error) {
	validator := &validate.Validator{}
	if err := validator.Required("slug", tagSlug).Err(); err != nil {
		return nil, err
	}
	return service.repo.FindBySlug(context, tagSlug)
}
