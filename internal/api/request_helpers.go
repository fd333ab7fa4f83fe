package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskIDParam is the chi URL parameter holding a task id.
const TaskIDParam = "id"

// getPathID extracts a positive integer id from the URL path. Values that do
// not parse are reported as not found, like ids that match no record.
func getPathID(r *http.Request, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeTaskChanges reads the writable task fields from obj and checks them
// against the task request rules. Unknown and read-only members such as id,
// owner and the timestamps are ignored. requireTitle selects the rules for
// creation and full replacement.
func decodeTaskChanges(obj shared.Object, requireTitle bool) (domain.TaskChanges, error) {
	var (
		c       domain.TaskChanges
		invalid domain.ValidationError
	)

	c.Title, _ = obj.String("title", false, &invalid)
	c.Description.Value, c.Description.Set = obj.String("description", true, &invalid)
	c.Priority, _ = obj.Int("priority", &invalid)
	c.IsDone, _ = obj.Bool("is_done", &invalid)
	c = c.Normalize()

	var req interface{} = &TaskPatchRequest{
		Title:       c.Title,
		Description: c.Description.Value,
		Priority:    c.Priority,
		IsDone:      c.IsDone,
	}
	if requireTitle {
		req = &TaskWriteRequest{
			Title:       c.Title,
			Description: c.Description.Value,
			Priority:    c.Priority,
			IsDone:      c.IsDone,
		}
	}

	var err error
	c.Invalid, err = checkRequest(req, &invalid)
	return c, err
}

// readCredentials reads a username/password pair. Surrounding whitespace is
// dropped from the username only.
func readCredentials(obj shared.Object, invalid *domain.ValidationError) service.Credentials {
	var creds service.Credentials
	creds.Username, _ = obj.String("username", false, invalid)
	if creds.Username != nil {
		trimmed := strings.TrimSpace(*creds.Username)
		creds.Username = &trimmed
	}
	creds.Password, _ = obj.String("password", false, invalid)
	return creds
}

// decodeRegistration reads and checks a registration body.
func decodeRegistration(obj shared.Object) (service.Credentials, error) {
	var invalid domain.ValidationError
	creds := readCredentials(obj, &invalid)

	var err error
	creds.Invalid, err = checkRequest(&RegisterRequest{
		Username: creds.Username,
		Password: creds.Password,
	}, &invalid)
	return creds, err
}

// decodeLogin reads and checks a login body.
func decodeLogin(obj shared.Object) (service.Credentials, error) {
	var invalid domain.ValidationError
	creds := readCredentials(obj, &invalid)

	var err error
	creds.Invalid, err = checkRequest(&LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	}, &invalid)
	return creds, err
}

// readToken reads a text member with surrounding whitespace removed.
func readToken(obj shared.Object, name string, invalid *domain.ValidationError) *string {
	token, _ := obj.String(name, false, invalid)
	if token != nil {
		trimmed := strings.TrimSpace(*token)
		token = &trimmed
	}
	return token
}

// decodeVerifyRequest reads the token of a verify body. Any failure is
// returned as a *domain.ValidationError.
func decodeVerifyRequest(obj shared.Object) (string, error) {
	var invalid domain.ValidationError
	req := TokenVerifyRequest{Token: readToken(obj, "token", &invalid)}
	return tokenOrError(&req, req.Token, &invalid)
}

// decodeRefreshRequest reads the refresh token of a refresh body.
func decodeRefreshRequest(obj shared.Object) (string, error) {
	var invalid domain.ValidationError
	req := RefreshRequest{Refresh: readToken(obj, "refresh", &invalid)}
	return tokenOrError(&req, req.Refresh, &invalid)
}

func tokenOrError(req interface{}, token *string, invalid *domain.ValidationError) (string, error) {
	failed, err := checkRequest(req, invalid)
	if err != nil {
		return "", err
	}
	if failed != nil {
		return "", failed
	}
	return *token, nil
}

// checkRequest runs the tag rules of req on top of the decode errors already
// in invalid. It returns nil when nothing failed.
func checkRequest(req interface{}, invalid *domain.ValidationError) (*domain.ValidationError, error) {
	if err := shared.ValidateRequest(req, invalid); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	if invalid.Err() == nil {
		return nil, nil
	}
	return invalid, nil
}

// getTaskListParams collects the listing query parameters.
func getTaskListParams(r *http.Request) service.TaskListParams {
	q := r.URL.Query()
	return service.TaskListParams{
		Priority: q.Get("priority"),
		IsDone:   q.Get("is_done"),
		Page:     q.Get("page"),
		Size:     q.Get("size"),
	}
}
