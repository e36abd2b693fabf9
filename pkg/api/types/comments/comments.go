package comments

import (
	"github.com/tasklane/tasklane/pkg/domain"
	"github.com/tasklane/tasklane/pkg/utils/rfctime"
)

type Detail struct {
	Id        int             `json:"id"`
	Content   string          `json:"content"`
	TaskId    int             `json:"taskId"`
	AuthorId  string          `json:"authorId"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
}

func ComposeDetail(c domain.Comment) Detail {
	return Detail{
		Id:        c.Id,
		Content:   c.Content,
		TaskId:    c.TaskId,
		AuthorId:  c.AuthorId,
		CreatedAt: rfctime.New(c.CreatedAt),
		UpdatedAt: rfctime.New(c.UpdatedAt),
	}
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id && d.Content == o.Content && d.TaskId == o.TaskId
}

// CommentSpec is the request body to comment on a task. The task id
// comes from the request path.
type CommentSpec struct {
	Content string `json:"content"`
}

func (s CommentSpec) Validate() map[string]string {
	if s.Content == "" {
		return map[string]string{"content": "required"}
	}
	return nil
}
