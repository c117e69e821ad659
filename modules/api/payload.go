package api

import (
	"errors"

	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/modules/task"
	"github.com/tidwall/gjson"
)

var (
	errInvalidPayload = errors.New("request body is not a JSON object")
	errInvalidField   = errors.New("request field has the wrong type")
)

// parseObject validates that body holds a single JSON object.
func parseObject(body []byte) (gjson.Result, error) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return gjson.Result{}, errInvalidPayload
	}
	result := gjson.ParseBytes(body)
	if !result.IsObject() {
		return gjson.Result{}, errInvalidPayload
	}
	return result, nil
}

// parseCreatePayload extracts a create request. A missing or empty title
// yields task.ErrTitleRequired. A null description counts as absent.
func parseCreatePayload(body []byte) (*task.CreateTaskRequest, error) {
	obj, err := parseObject(body)
	if err != nil {
		return nil, err
	}

	title := obj.Get("title")
	if !title.Exists() || title.Type == gjson.Null {
		return nil, task.ErrTitleRequired
	}
	if title.Type != gjson.String {
		return nil, errInvalidField
	}
	if title.Str == "" {
		return nil, task.ErrTitleRequired
	}

	req := &task.CreateTaskRequest{Title: title.Str}
	switch description := obj.Get("description"); description.Type {
	case gjson.String:
		req.Description = description.Str
	case gjson.Null:
	default:
		return nil, errInvalidField
	}
	return req, nil
}

// parseUpdatePayload extracts the string-typed fields of an update body.
// Fields of any other type are ignored.
func parseUpdatePayload(body []byte) (domain.Patch, error) {
	obj, err := parseObject(body)
	if err != nil {
		return domain.Patch{}, err
	}

	var patch domain.Patch
	patch.Title = stringField(obj, "title")
	patch.Description = stringField(obj, "description")
	patch.Status = stringField(obj, "status")
	return patch, nil
}

func stringField(obj gjson.Result, key string) *string {
	field := obj.Get(key)
	if field.Type != gjson.String {
		return nil
	}
	value := field.Str
	return &value
}
