package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/repo-bootstrap/internal/errdef"
)

var (
	ErrNoSource      = errors.New("template source not set")
	ErrStatus        = errors.New("unexpected status")
	errNilHTTPClient = errors.New("http client is nil")
)

const (
	DefaultRawBase = "https://raw.githubusercontent.com"
	DefaultTimeout = 30 * time.Second
	userAgent      = "repo-bootstrap/1.0"
)

// Source identifies the template repository files are pulled from.
type Source struct {
	Owner string
	Repo  string
	Ref   string
}

func (s Source) String() string {
	return fmt.Sprintf("%s/%s@%s", s.Owner, s.Repo, s.Ref)
}

type Client struct {
	http   *http.Client
	src    Source
	base   string
	logger *zap.Logger
	tracer trace.Tracer
}

func NewClient(h *http.Client, src Source) (Client, error) {
	if src.Owner == "" || src.Repo == "" || src.Ref == "" {
		return Client{}, ErrNoSource
	}
	if h == nil {
		h = &http.Client{Timeout: DefaultTimeout}
	}
	return Client{
		http:   h,
		src:    src,
		base:   DefaultRawBase,
		logger: zap.NewNop(),
		tracer: noop.NewTracerProvider().Tracer(""),
	}, nil
}

func (c Client) WithBase(v string) Client {
	if v == "" {
		c.base = DefaultRawBase
		return c
	}
	c.base = strings.TrimRight(v, "/")
	return c
}

func (c Client) WithLogger(l *zap.Logger) Client {
	if l == nil {
		l = zap.NewNop()
	}
	c.logger = l
	return c
}

func (c Client) WithTracer(t trace.Tracer) Client {
	if t == nil {
		t = noop.NewTracerProvider().Tracer("")
	}
	c.tracer = t
	return c
}

func (c Client) Source() Source {
	return c.src
}

// URL returns the raw URL the remote path is served from.
func (c Client) URL(remotePath string) string {
	return BuildRawURL(c.base, c.src.Owner, c.src.Repo, c.src.Ref, remotePath)
}

// Fetch downloads one template file. Failures never escape as a Go error;
// they are carried on the returned Result so callers can keep going.
func (c Client) Fetch(ctx context.Context, remotePath string) Result {
	url := c.URL(remotePath)
	res := Result{Path: remotePath, URL: url}

	ctx, span := c.tracer.Start(ctx, "fetch template file",
		trace.WithAttributes(
			attribute.String("template.path", remotePath),
			attribute.String("url.full", url),
		))
	defer span.End()

	c.logger.Debug("fetching template file", zap.String("url", url))

	text, err := c.get(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("template fetch failed", zap.String("url", url), zap.Error(err))
		res.Err = errdef.Wrap(errdef.CodeFetch, err, "")
		return res
	}

	span.SetAttributes(attribute.Int("template.chars", utf8.RuneCountInString(text)))
	c.logger.Debug("template fetched", zap.String("url", url), zap.Int("bytes", len(text)))
	res.Text = text
	return res
}

func (c Client) get(ctx context.Context, url string) (string, error) {
	if c.http == nil {
		return "", errNilHTTPClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrStatus, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return DecodeText(body, res.Header.Get("Content-Type")), nil
}
