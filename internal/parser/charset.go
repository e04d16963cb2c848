package parser

import (
	"io"
	"mime"
	"strings"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps a catalog response body so that a charset declared in the
// response Content-Type (e.g. "application/json; charset=ISO-8859-1") is converted
// to UTF-8 before JSON decoding.
//
// Bodies without a declared charset, or declaring UTF-8, are returned unchanged:
// JSON is UTF-8 by definition and content sniffing would only guess wrong.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	if contentType == "" {
		return body, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	label := strings.ToLower(strings.TrimSpace(params["charset"]))
	if label == "" || label == "utf-8" || label == "utf8" {
		return body, nil
	}
	return charset.NewReader(body, contentType)
}
