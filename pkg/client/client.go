package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apicomments "github.com/tasklane/tasklane/pkg/api/types/comments"
	apiprojects "github.com/tasklane/tasklane/pkg/api/types/projects"
	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	apiusers "github.com/tasklane/tasklane/pkg/api/types/users"
	"github.com/tasklane/tasklane/pkg/utils/slices"
)

// TaskQuery narrows FindTasks. Zero value means "everything".
type TaskQuery struct {
	ProjectId  *int
	AssigneeId *string
	Status     *string
}

type TasklaneClient interface {
	FindTasks(ctx context.Context, query TaskQuery) ([]apitasks.Detail, error)
	GetTask(ctx context.Context, id int) (apitasks.Detail, error)
	CreateTask(ctx context.Context, spec apitasks.TaskSpec) (apitasks.Detail, error)
	UpdateTask(ctx context.Context, id int, change apitasks.TaskChange) (apitasks.Detail, error)
	DeleteTask(ctx context.Context, id int) error

	FindComments(ctx context.Context, taskId int) ([]apicomments.Detail, error)
	CreateComment(ctx context.Context, taskId int, spec apicomments.CommentSpec) (apicomments.Detail, error)

	FindProjects(ctx context.Context) ([]apiprojects.Detail, error)
	CreateProject(ctx context.Context, spec apiprojects.ProjectSpec) (apiprojects.Detail, error)
	DeleteProject(ctx context.Context, id int) error

	Me(ctx context.Context) (apiusers.Detail, error)
	Leaderboard(ctx context.Context) ([]apiusers.Detail, error)
}

type client struct {
	httpclient *http.Client
	api        string
	token      string
}

// NewClient builds a client for the server at baseUrl, authenticating
// every call with token.
func NewClient(baseUrl string, token string) TasklaneClient {
	return &client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(baseUrl, "/") + "/api",
		token:      token,
	}
}

func (c *client) apipath(path ...string) string {
	path = slices.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})
	return strings.Join(append([]string{c.api}, path...), "/")
}

func (c *client) do(ctx context.Context, method string, url string, payload interface{}) (*http.Response, error) {
	var body *bytes.Buffer = &bytes.Buffer{}
	if payload != nil {
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpclient.Do(req)
}

func (c *client) FindTasks(ctx context.Context, query TaskQuery) ([]apitasks.Detail, error) {
	params := []string{}
	if query.ProjectId != nil {
		params = append(params, "projectId="+strconv.Itoa(*query.ProjectId))
	}
	if query.AssigneeId != nil {
		params = append(params, "assigneeId="+*query.AssigneeId)
	}
	if query.Status != nil {
		params = append(params, "status="+*query.Status)
	}
	url := c.apipath("tasks")
	if len(params) != 0 {
		url += "?" + strings.Join(params, "&")
	}

	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tasks []apitasks.Detail
	if err := unmarshalJsonResponse(resp, &tasks, MessageFor{
		Status4xx: "can not list tasks",
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *client) GetTask(ctx context.Context, id int) (apitasks.Detail, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("tasks", strconv.Itoa(id)), nil)
	if err != nil {
		return apitasks.Detail{}, err
	}
	defer resp.Body.Close()

	var task apitasks.Detail
	if err := unmarshalJsonResponse(resp, &task, MessageFor{
		Status4xx: fmt.Sprintf("task %d is not found", id),
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return apitasks.Detail{}, err
	}
	return task, nil
}

func (c *client) CreateTask(ctx context.Context, spec apitasks.TaskSpec) (apitasks.Detail, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("tasks"), spec)
	if err != nil {
		return apitasks.Detail{}, err
	}
	defer resp.Body.Close()

	var task apitasks.Detail
	if err := unmarshalJsonResponse(resp, &task, MessageFor{
		Status4xx: "task is rejected by server",
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return apitasks.Detail{}, err
	}
	return task, nil
}

func (c *client) UpdateTask(ctx context.Context, id int, change apitasks.TaskChange) (apitasks.Detail, error) {
	resp, err := c.do(ctx, http.MethodPatch, c.apipath("tasks", strconv.Itoa(id)), change)
	if err != nil {
		return apitasks.Detail{}, err
	}
	defer resp.Body.Close()

	var task apitasks.Detail
	if err := unmarshalJsonResponse(resp, &task, MessageFor{
		Status4xx: fmt.Sprintf("task %d can not be updated", id),
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return apitasks.Detail{}, err
	}
	return task, nil
}

func (c *client) DeleteTask(ctx context.Context, id int) error {
	resp, err := c.do(ctx, http.MethodDelete, c.apipath("tasks", strconv.Itoa(id)), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return errorFromResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("task %d can not be deleted", id),
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	})
}

func (c *client) FindComments(ctx context.Context, taskId int) ([]apicomments.Detail, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("comments")+"?taskId="+strconv.Itoa(taskId), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var comments []apicomments.Detail
	if err := unmarshalJsonResponse(resp, &comments, MessageFor{
		Status4xx: fmt.Sprintf("comments of task %d can not be listed", taskId),
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *client) CreateComment(ctx context.Context, taskId int, spec apicomments.CommentSpec) (apicomments.Detail, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("tasks", strconv.Itoa(taskId), "comments"), spec)
	if err != nil {
		return apicomments.Detail{}, err
	}
	defer resp.Body.Close()

	var comment apicomments.Detail
	if err := unmarshalJsonResponse(resp, &comment, MessageFor{
		Status4xx: fmt.Sprintf("task %d is not found", taskId),
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return apicomments.Detail{}, err
	}
	return comment, nil
}

func (c *client) FindProjects(ctx context.Context) ([]apiprojects.Detail, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("projects"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var projects []apiprojects.Detail
	if err := unmarshalJsonResponse(resp, &projects, MessageFor{
		Status4xx: "can not list projects",
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *client) CreateProject(ctx context.Context, spec apiprojects.ProjectSpec) (apiprojects.Detail, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("projects"), spec)
	if err != nil {
		return apiprojects.Detail{}, err
	}
	defer resp.Body.Close()

	var project apiprojects.Detail
	if err := unmarshalJsonResponse(resp, &project, MessageFor{
		Status4xx: "project is rejected by server",
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return apiprojects.Detail{}, err
	}
	return project, nil
}

func (c *client) DeleteProject(ctx context.Context, id int) error {
	resp, err := c.do(ctx, http.MethodDelete, c.apipath("projects", strconv.Itoa(id)), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return errorFromResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("project %d can not be deleted", id),
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	})
}

func (c *client) Me(ctx context.Context) (apiusers.Detail, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("auth", "user"), nil)
	if err != nil {
		return apiusers.Detail{}, err
	}
	defer resp.Body.Close()

	var me apiusers.Detail
	if err := unmarshalJsonResponse(resp, &me, MessageFor{
		Status4xx: "can not fetch your own record",
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return apiusers.Detail{}, err
	}
	return me, nil
}

func (c *client) Leaderboard(ctx context.Context) ([]apiusers.Detail, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("leaderboard"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var users []apiusers.Detail
	if err := unmarshalJsonResponse(resp, &users, MessageFor{
		Status4xx: "can not fetch leaderboard",
		Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
	}); err != nil {
		return nil, err
	}
	return users, nil
}
