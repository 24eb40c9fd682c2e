package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"bookseller/internal/entity"
	"bookseller/internal/paging"
)

// PathID parses the {name} path segment as a record id.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, entity.Invalid(name, "%s must be an integer", name)
	}
	return id, nil
}

// QueryParser collects query-string parse failures as validation errors.
type QueryParser struct {
	values url.Values
	errs   entity.ValidationErrors
}

func NewQueryParser(values url.Values) *QueryParser {
	return &QueryParser{values: values}
}

// Paging parses page and limit over the defaults.
func (p *QueryParser) Paging() paging.Request {
	req := paging.NewRequest()
	p.Int("page", &req.Page)
	p.Int("limit", &req.Limit)
	return req
}

func (p *QueryParser) String(key string) string {
	return p.values.Get(key)
}

func (p *QueryParser) Int(key string, dst *int) {
	raw := p.values.Get(key)
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, "%s must be an integer", key)
		return
	}
	*dst = v
}

func (p *QueryParser) OptionalFloat(key string) *float64 {
	raw := p.values.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, "%s must be a number", key)
		return nil
	}
	return &v
}

// Text decodes key into dst, typically a sort enum.
func (p *QueryParser) Text(key string, dst interface{ UnmarshalText([]byte) error }) {
	raw := p.values.Get(key)
	if raw == "" {
		return
	}
	if err := dst.UnmarshalText([]byte(raw)); err != nil {
		p.fail(key, "%s %v", key, err)
	}
}

func (p *QueryParser) fail(key, format string, args ...any) {
	p.errs = append(p.errs, entity.ValidationError{Field: key, Message: fmt.Sprintf(format, args...)})
}

// Err returns the collected failures, or nil.
func (p *QueryParser) Err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs
}

// DecodeJSON reads the request body into dst. A malformed body is reported
// as a validation error on "body".
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return entity.Invalid("body", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return entity.Invalid("body", "request body exceeds %d bytes", tooLarge.Limit)
		}
		return entity.Invalid("body", "malformed JSON: %v", err)
	}
	return nil
}
