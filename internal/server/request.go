package server

import (
	"context"
	"fmt"
	"io/ioutil"
	"mime"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

const maxFormSize = 1 << 20

// Request is the decoded view of an incoming request.
type Request struct {
	PathParams map[string]string
	Query      url.Values
	// Form holds the url-encoded or multipart body fields, parsed for every
	// method including GET and DELETE.
	Form url.Values
}

// Unmarshal decodes path params, query string and a form body. Bodies over
// 1MiB are rejected; other content types are ignored.
func Unmarshal(r *http.Request) (*Request, error) {
	req := &Request{
		PathParams: mux.Vars(r),
		Query:      r.URL.Query(),
		Form:       url.Values{},
	}
	if r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return req, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("invalid content type %q: %w", ct, err)
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxFormSize)
	switch mt {
	case "application/x-www-form-urlencoded":
		body, err := ioutil.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		if req.Form, err = url.ParseQuery(string(body)); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormSize); err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		for key, vals := range r.MultipartForm.Value {
			req.Form[key] = vals
		}
		_ = r.MultipartForm.RemoveAll()
	}
	return req, nil
}

// Values merges the form body over the query string.
func (r *Request) Values() url.Values {
	v := url.Values{}
	for key, vals := range r.Query {
		v[key] = vals
	}
	for key, vals := range r.Form {
		v[key] = vals
	}
	return v
}

// Value returns the last submitted value of key, body first, then query string.
func (r *Request) Value(key string) (string, bool) {
	if vals, ok := r.Form[key]; ok && len(vals) > 0 {
		return vals[len(vals)-1], true
	}
	if vals, ok := r.Query[key]; ok && len(vals) > 0 {
		return vals[len(vals)-1], true
	}
	return "", false
}

// UnmarshalQueryParams decodes the query string into dst using `schema` tags.
func (r *Request) UnmarshalQueryParams(ctx context.Context, dst interface{}, ignoreUnknown bool) error {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(ignoreUnknown)
	return decoder.Decode(dst, r.Query)
}
