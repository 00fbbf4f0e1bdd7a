package source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

// fakeS3 is an in-memory path-style S3 endpoint handling HEAD and GET.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	deny    map[string]bool // keys answered with 403
	gets    int
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	bucket, key := parts[0], ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if bucket != f.bucket {
		return respond(http.StatusNotFound, nil), nil
	}
	if key == "" {
		return respond(http.StatusOK, nil), nil
	}
	if f.deny[key] {
		return respond(http.StatusForbidden, nil), nil
	}
	body, ok := f.objects[key]
	if !ok {
		return respond(http.StatusNotFound, nil), nil
	}

	switch req.Method {
	case http.MethodHead:
		resp := respond(http.StatusOK, nil)
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
		return resp, nil
	case http.MethodGet:
		f.gets++
		resp := respond(http.StatusOK, body)
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
		resp.ContentLength = int64(len(body))
		return resp, nil
	}
	return respond(http.StatusNotImplemented, nil), nil
}

func respond(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     http.Header{"Content-Type": {"text/tab-separated-values"}},
	}
}

func newFakeS3Store(t *testing.T, fake *fakeS3, bucket, prefix string) *S3Store {
	t.Helper()
	store, err := NewS3Store(context.Background(), S3Config{
		Bucket:          bucket,
		Prefix:          prefix,
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return store
}

func fakeWithCatalog(prefix string) *fakeS3 {
	objects := make(map[string][]byte)
	for name, body := range catalogFiles() {
		objects[prefix+name] = []byte(body)
	}
	return &fakeS3{bucket: "catalog-bucket", objects: objects, deny: map[string]bool{}}
}

func TestS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestS3Store_SessionLoad(t *testing.T) {
	fake := fakeWithCatalog("exports/2024/")
	store := newFakeS3Store(t, fake, "catalog-bucket", "exports/2024/")
	assert.Equal(t, "s3://catalog-bucket/exports/2024/", store.Location())

	session := core.NewSession(core.NewBlobSource(store), core.SessionOptions{})
	cat, err := session.Catalog(context.Background())
	require.NoError(t, err)

	require.Len(t, cat.Foods, 2)
	assert.Equal(t, "Apple Pie", cat.Foods[0].FoodName.String)
	assert.Equal(t, 4, fake.gets)
}

func TestS3Store_MissingObject(t *testing.T) {
	fake := fakeWithCatalog("")
	delete(fake.objects, core.DefaultMenuFile)
	store := newFakeS3Store(t, fake, "catalog-bucket", "")

	session := core.NewSession(core.NewBlobSource(store), core.SessionOptions{})
	_, err := session.Catalog(context.Background())

	var missing *core.DataSourceMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, core.CauseMissingFile, missing.Cause)
	assert.Equal(t, "s3://catalog-bucket/menu.tsv", missing.Path)
	assert.Equal(t, 0, fake.gets, "nothing is fetched when a table is missing")
}

func TestS3Store_MissingBucket(t *testing.T) {
	store := newFakeS3Store(t, fakeWithCatalog(""), "other-bucket", "")

	err := store.Stat(context.Background(), core.DefaultFoodFile)
	var missing *core.DataSourceMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, core.CauseMissingRoot, missing.Cause)
}

func TestS3Store_Forbidden(t *testing.T) {
	fake := fakeWithCatalog("")
	fake.deny[core.DefaultFoodFile] = true
	store := newFakeS3Store(t, fake, "catalog-bucket", "")

	err := store.Stat(context.Background(), core.DefaultFoodFile)
	var missing *core.DataSourceMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, core.CauseUnreadable, missing.Cause)
}

func TestS3Store_OpenMissing(t *testing.T) {
	store := newFakeS3Store(t, fakeWithCatalog(""), "catalog-bucket", "")

	_, err := store.Open(context.Background(), "absent.tsv")
	assert.ErrorIs(t, err, core.ErrDataSourceMissing)
}
