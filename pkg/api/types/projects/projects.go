package projects

import (
	"github.com/tasklane/tasklane/pkg/domain"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
)

type Detail struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	OwnerId     string          `json:"ownerId"`
	CreatedAt   rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt   rfctime.RFC3339 `json:"updatedAt"`
}

func ComposeDetail(p domain.Project) Detail {
	return Detail{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		OwnerId:     p.OwnerId,
		CreatedAt:   rfctime.New(p.CreatedAt),
		UpdatedAt:   rfctime.New(p.UpdatedAt),
	}
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id && d.Name == o.Name && d.Color == o.Color &&
		d.OwnerId == o.OwnerId
}

type ProjectSpec struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (s ProjectSpec) Validate() (NewProjectFields, map[string]string) {
	if s.Name == "" {
		return NewProjectFields{}, map[string]string{"name": "required"}
	}
	description := ""
	if s.Description != nil {
		description = *s.Description
	}
	color := domain.DefaultProjectColor
	if s.Color != nil && *s.Color != "" {
		color = *s.Color
	}
	return NewProjectFields{
		Name: s.Name, Description: description, Color: color,
	}, nil
}

type NewProjectFields struct {
	Name        string
	Description string
	Color       string
}

type ProjectChange struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (c ProjectChange) Validate() (domain.ProjectPatch, map[string]string) {
	if c.Name != nil && *c.Name == "" {
		return domain.ProjectPatch{}, map[string]string{"name": "must not be empty"}
	}
	return domain.ProjectPatch{
		Name: c.Name, Description: c.Description, Color: c.Color,
	}, nil
}
