package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
)

type StatusCodeRange int

const (
	Status2xx StatusCodeRange = iota
	Status4xx
	Status5xx
	StatusUnknown
)

func (s StatusCodeRange) String() string {
	switch s {
	case Status2xx:
		return "success"
	case Status4xx:
		return "client error"
	case Status5xx:
		return "server error"
	default:
		return "unknown status"
	}
}

func StatusCodeRangeOf(resp *http.Response) StatusCodeRange {
	switch {
	case resp.StatusCode < 400:
		return Status2xx
	case resp.StatusCode < 500:
		return Status4xx
	case resp.StatusCode < 600:
		return Status5xx
	default:
		return StatusUnknown
	}
}

type MessageFor map[StatusCodeRange]string

// errorFromResponse converts a non-2xx response to an error carrying
// the server's structured message when it sent one.
func errorFromResponse(resp *http.Response, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		return nil
	}

	message, ok := messageFor[scr]
	if !ok {
		message = scr.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: cannot read server message: %w", message, err)
	}

	serverMessage := struct {
		Message apierr.ErrorMessage `json:"message"`
	}{}
	if err := json.Unmarshal(body, &serverMessage); err == nil && serverMessage.Message.Reason != "" {
		return fmt.Errorf("%s: %s", message, serverMessage.Message.String())
	}
	return fmt.Errorf("%s (status code = %d)", message, resp.StatusCode)
}

// unmarshal http response which has json content.
//
// When the status is 2xx the body is decoded into v; otherwise the
// response is turned into an error via errorFromResponse.
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	if StatusCodeRangeOf(resp) <= Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf(
				"unexpected error: %s (status code = %d)", err.Error(), resp.StatusCode,
			)
		}
		return nil
	}
	return errorFromResponse(resp, messageFor)
}
