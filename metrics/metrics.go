// Package metrics instruments an ObjectStoreClient with Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c2fo/remotestore"
)

// DefaultNamespace prefixes every metric name unless Instrument is given another one.
const DefaultNamespace = "remotestore"

// results of an operation
const (
	resultOK                = "ok"
	resultNotFound          = "not_found"
	resultExists            = "exists"
	resultInvalidCredential = "invalid_credential"
	resultCanceled          = "canceled"
	resultError             = "error"
)

// Client is an ObjectStoreClient recording the outcome, duration and transferred bytes of every call.
type Client struct {
	next remotestore.ObjectStoreClient

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	uploaded   prometheus.Counter
	downloaded prometheus.Counter
}

// Instrument wraps next and registers its metrics with reg. An empty namespace means DefaultNamespace. Instrument
// panics if the metrics are already registered with reg.
func Instrument(next remotestore.ObjectStoreClient, reg prometheus.Registerer, namespace string) *Client {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Client{
		next: next,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of store operations",
			},
			[]string{"operation", "result"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Store operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		uploaded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_uploaded_total",
				Help:      "Total bytes sent to the store",
			},
		),
		downloaded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_downloaded_total",
				Help:      "Total bytes read from the store",
			},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Unwrap returns the instrumented client.
func (c *Client) Unwrap() remotestore.ObjectStoreClient {
	return c.next
}

func (c *Client) observe(operation string, start time.Time, err error) {
	c.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	c.operations.WithLabelValues(operation, result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, remotestore.ErrNotFound):
		return resultNotFound
	case errors.Is(err, remotestore.ErrExists):
		return resultExists
	case errors.Is(err, remotestore.ErrInvalidCredential):
		return resultInvalidCredential
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resultCanceled
	default:
		return resultError
	}
}

func (c *Client) Identity(ctx context.Context) (remotestore.AccountInfo, error) {
	start := time.Now()
	info, err := c.next.Identity(ctx)
	c.observe("identity", start, err)
	return info, err
}

func (c *Client) CreateFolder(ctx context.Context, path string) error {
	start := time.Now()
	err := c.next.CreateFolder(ctx, path)
	c.observe("create_folder", start, err)
	return err
}

func (c *Client) Stat(ctx context.Context, path string) (remotestore.EntryInfo, error) {
	start := time.Now()
	info, err := c.next.Stat(ctx, path)
	c.observe("stat", start, err)
	return info, err
}

// Put counts the bytes the wrapped client consumed from r, whether or not the upload succeeded.
func (c *Client) Put(ctx context.Context, path string, mode remotestore.WriteMode, r io.Reader) error {
	start := time.Now()
	cr := &countingReader{r: r}
	err := c.next.Put(ctx, path, mode, cr)
	c.uploaded.Add(float64(cr.n.Load()))
	c.observe("put", start, err)
	return err
}

// Get measures the time to open the object. Downloaded bytes are counted as they are read.
func (c *Client) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	start := time.Now()
	rc, err := c.next.Get(ctx, path)
	c.observe("get", start, err)
	if err != nil {
		return nil, err
	}
	return &countingReadCloser{ReadCloser: rc, counter: c.downloaded}, nil
}

func (c *Client) Move(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := c.next.Move(ctx, src, dst)
	c.observe("move", start, err)
	return err
}

func (c *Client) Delete(ctx context.Context, path string) error {
	start := time.Now()
	err := c.next.Delete(ctx, path)
	c.observe("delete", start, err)
	return err
}

func (c *Client) ListFolder(ctx context.Context, path string) (*remotestore.ListPage, error) {
	start := time.Now()
	page, err := c.next.ListFolder(ctx, path)
	c.observe("list_folder", start, err)
	return page, err
}

func (c *Client) ListFolderContinue(ctx context.Context, cursor string) (*remotestore.ListPage, error) {
	start := time.Now()
	page, err := c.next.ListFolderContinue(ctx, cursor)
	c.observe("list_folder_continue", start, err)
	return page, err
}

type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n.Add(int64(n))
	return n, err
}

type countingReadCloser struct {
	io.ReadCloser
	counter prometheus.Counter
}

func (cr *countingReadCloser) Read(p []byte) (int, error) {
	n, err := cr.ReadCloser.Read(p)
	cr.counter.Add(float64(n))
	return n, err
}
