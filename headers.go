package main

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xorcare/pointer"
)

// applyHeaders sets the well-known HTTP headers on their PutObject fields and
// sends everything else as user metadata.
func applyHeaders(input *awss3.PutObjectInput, headers map[string]string) error {
	for name, value := range headers {
		switch http.CanonicalHeaderKey(name) {
		case "Cache-Control":
			input.CacheControl = pointer.String(value)
		case "Content-Type":
			input.ContentType = pointer.String(value)
		case "Content-Encoding":
			input.ContentEncoding = pointer.String(value)
		case "Content-Disposition":
			input.ContentDisposition = pointer.String(value)
		case "Content-Language":
			input.ContentLanguage = pointer.String(value)
		case "Expires":
			expires, err := http.ParseTime(value)
			if err != nil {
				return fmt.Errorf("invalid Expires header %q: %w", value, err)
			}
			input.Expires = pointer.Time(expires)
		default:
			if input.Metadata == nil {
				input.Metadata = make(map[string]string)
			}
			input.Metadata[strings.ToLower(name)] = value
		}
	}
	return nil
}

// validateHeaders rejects header configuration that applyHeaders would refuse
// at upload time.
func validateHeaders(headers map[string]string) error {
	for name := range headers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty header name")
		}
	}
	return applyHeaders(&awss3.PutObjectInput{}, headers)
}

// detectContentType prefers the extension and falls back to sniffing the
// leading bytes of body. body is rewound before returning.
func detectContentType(key string, body io.ReadSeeker) (string, error) {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct, nil
	}

	buf := make([]byte, CONTENT_SNIFF_BYTES)
	n, err := io.ReadFull(body, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mimetype.Detect(buf[:n]).String(), nil
}
