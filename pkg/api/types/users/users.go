package users

import (
	"github.com/tasklane/tasklane/pkg/domain"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
)

type Detail struct {
	Id              string          `json:"id"`
	Email           string          `json:"email"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	ProfileImageUrl string          `json:"profileImageUrl"`
	IsAdmin         bool            `json:"isAdmin"`
	IsApproved      bool            `json:"isApproved"`
	Xp              int             `json:"xp"`
	Level           int             `json:"level"`
	CreatedAt       rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt       rfctime.RFC3339 `json:"updatedAt"`
}

func ComposeDetail(u domain.User) Detail {
	return Detail{
		Id:              u.Id,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageUrl: u.ProfileImageUrl,
		IsAdmin:         u.IsAdmin,
		IsApproved:      u.IsApproved,
		Xp:              u.Xp,
		Level:           u.Level,
		CreatedAt:       rfctime.New(u.CreatedAt),
		UpdatedAt:       rfctime.New(u.UpdatedAt),
	}
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id && d.Xp == o.Xp && d.Level == o.Level &&
		d.IsApproved == o.IsApproved
}
