package fetch

import (
	"bytes"
	"io"
	"mime"
	"strings"

	"golang.org/x/net/html/charset"
)

const defaultCharset = "utf-8"

// DecodeText converts a response body to a string using the charset declared
// in contentType. Undecodable bytes turn into U+FFFD instead of failing, and an
// unknown label is treated as UTF-8.
func DecodeText(body []byte, contentType string) string {
	label := charsetLabel(contentType)

	reader, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		reader, err = charset.NewReaderLabel(defaultCharset, bytes.NewReader(body))
	}
	if err != nil {
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}
	return string(decoded)
}

func charsetLabel(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return defaultCharset
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return defaultCharset
	}
	if cs := strings.TrimSpace(params["charset"]); cs != "" {
		return strings.ToLower(cs)
	}
	return defaultCharset
}
