// internal/fetch/request.go
package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// Request is the single fetch target. Built once at startup, never mutated.
type Request struct {
	Host      string
	Port      string
	Path      string
	UserAgent string
}

func (r Request) Validate() error {
	if r.Host == "" {
		return errors.New("fetch: host required")
	}
	if r.Port == "" {
		return errors.New("fetch: port required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("fetch: path %q must start with /", r.Path)
	}
	if strings.ContainsAny(r.Host+r.Path+r.UserAgent, "\r\n") {
		return errors.New("fetch: request fields must not contain line breaks")
	}
	return nil
}

// Bytes formats the fixed HTTP/1.1 GET request. No body.
func (r Request) Bytes() []byte {
	var b strings.Builder
	b.WriteString("GET ")
	b.WriteString(r.Path)
	b.WriteString(" HTTP/1.1\r\n")
	b.WriteString("Host: ")
	b.WriteString(r.Host)
	b.WriteString("\r\n")
	b.WriteString("User-Agent: ")
	b.WriteString(r.UserAgent)
	b.WriteString("\r\n\r\n")
	return []byte(b.String())
}
