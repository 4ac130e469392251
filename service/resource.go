// Package service maps each REST resource onto typed CRUD calls. Beyond
// path construction, draft validation and 404 translation there is no logic
// here.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-inventory-cache/client"
)

// ErrNotFound matches every *NotFoundError through errors.Is.
var ErrNotFound = errors.New("resource not found")

// ErrEmptyID is returned, without a request, when an item call has no id.
var ErrEmptyID = errors.New("resource id is required")

// NotFoundError reports that the server answered 404 for an id. It does not
// unwrap to the *client.HTTPError behind it: a miss is not a transport error.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Requester is the subset of *client.Client the services need.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Validatable drafts are checked before any request is made.
type Validatable interface {
	Validate() error
}

// Resource exposes CRUD over one REST collection. T is the resource, C its
// create draft and U its partial update.
type Resource[T any, C Validatable, U Validatable] struct {
	name string
	base string
	req  Requester
}

// NewResource binds a resource name (also its path segment) to a requester.
func NewResource[T any, C Validatable, U Validatable](req Requester, name string) *Resource[T, C, U] {
	name = strings.Trim(strings.TrimSpace(name), "/")
	return &Resource[T, C, U]{
		name: name,
		base: "/" + name,
		req:  req,
	}
}

// Name returns the resource name, e.g. "products".
func (r *Resource[T, C, U]) Name() string {
	return r.name
}

// GetAll fetches the whole collection.
func (r *Resource[T, C, U]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.req.Do(ctx, http.MethodGet, r.base, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// GetByID fetches one item. A 404 becomes *NotFoundError.
func (r *Resource[T, C, U]) GetByID(ctx context.Context, id string) (T, error) {
	var out T
	path, err := r.itemPath(id)
	if err != nil {
		return out, err
	}
	if err := r.req.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		var zero T
		return zero, r.translate(id, err)
	}
	return out, nil
}

// Create validates draft and posts it.
func (r *Resource[T, C, U]) Create(ctx context.Context, draft C) (T, error) {
	var out T
	if err := draft.Validate(); err != nil {
		return out, err
	}
	if err := r.req.Do(ctx, http.MethodPost, r.base, draft, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update validates patch and sends it. Fields absent from the patch keep
// their server-side values.
func (r *Resource[T, C, U]) Update(ctx context.Context, id string, patch U) (T, error) {
	var out T
	path, err := r.itemPath(id)
	if err != nil {
		return out, err
	}
	if err := patch.Validate(); err != nil {
		return out, err
	}
	if err := r.req.Do(ctx, http.MethodPut, path, patch, &out); err != nil {
		var zero T
		return zero, r.translate(id, err)
	}
	return out, nil
}

// Remove deletes one item.
func (r *Resource[T, C, U]) Remove(ctx context.Context, id string) error {
	path, err := r.itemPath(id)
	if err != nil {
		return err
	}
	if err := r.req.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return r.translate(id, err)
	}
	return nil
}

// NormalizeID trims surrounding whitespace from an item id. Callers that
// derive cache keys from ids use it so keys match the requested path.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

func (r *Resource[T, C, U]) itemPath(id string) (string, error) {
	id = NormalizeID(id)
	if id == "" {
		return "", fmt.Errorf("%s: %w", r.name, ErrEmptyID)
	}
	return r.base + "/" + url.PathEscape(id), nil
}

func (r *Resource[T, C, U]) translate(id string, err error) error {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.IsNotFound() {
		return &NotFoundError{Resource: r.name, ID: NormalizeID(id)}
	}
	return err
}
