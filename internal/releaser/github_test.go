package releaser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokify/releaseconductor/pkg/model"
)

var testRepo = model.RepoRef{Owner: "octo", Name: "widget"}

// newReleaserWithMockServer points a go-github client at a test server.
func newReleaserWithMockServer(t *testing.T, mux *http.ServeMux) (*GitHubReleaser, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	client.BaseURL, _ = client.BaseURL.Parse(server.URL + "/")
	client.UploadURL, _ = client.UploadURL.Parse(server.URL + "/uploads/")
	return NewGitHubReleaserWithClient(client), server
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetReleaseByTag_Found(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/widget/releases/tags/v1.0.0", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, &github.RepositoryRelease{
			ID:        github.Ptr(int64(42)),
			TagName:   github.Ptr("v1.0.0"),
			Name:      github.Ptr("v1.0.0"),
			UploadURL: github.Ptr("https://uploads.example.com/repos/octo/widget/releases/42/assets{?name,label}"),
		})
	})
	rel, _ := newReleaserWithMockServer(t, mux)

	got, err := rel.GetReleaseByTag(context.Background(), testRepo, "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "v1.0.0", got.TagName)
	assert.Equal(t, testRepo, got.Repo)
	assert.Contains(t, got.UploadURL, "{?name,label}")
}

func TestGetReleaseByTag_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/widget/releases/tags/v9.9.9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
	rel, _ := newReleaserWithMockServer(t, mux)

	_, err := rel.GetReleaseByTag(context.Background(), testRepo, "v9.9.9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReleaseNotFound))
}

func TestGetReleaseByTag_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/widget/releases/tags/v1.0.0", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]string{"message": "Bad credentials"})
	})
	rel, _ := newReleaserWithMockServer(t, mux)

	_, err := rel.GetReleaseByTag(context.Background(), testRepo, "v1.0.0")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrReleaseNotFound))
}

func TestCreateRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/widget/releases", func(w http.ResponseWriter, r *http.Request) {
		var req github.RepositoryRelease
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "v1.0.0", req.GetTagName())
		assert.Equal(t, "First", req.GetName())
		assert.Equal(t, "notes", req.GetBody())
		assert.True(t, req.GetDraft())
		assert.False(t, req.GetPrerelease())

		req.ID = github.Ptr(int64(7))
		req.UploadURL = github.Ptr("https://uploads.example.com/repos/octo/widget/releases/7/assets{?name,label}")
		writeJSON(t, w, http.StatusCreated, &req)
	})
	rel, _ := newReleaserWithMockServer(t, mux)

	got, err := rel.CreateRelease(context.Background(), &model.ReleaseRequest{
		Repo:    testRepo,
		TagName: "v1.0.0",
		Name:    "First",
		Body:    "notes",
		Draft:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.True(t, got.Draft)
}

func TestUpdateRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /repos/octo/widget/releases/42", func(w http.ResponseWriter, r *http.Request) {
		var req github.RepositoryRelease
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Renamed", req.GetName())
		assert.True(t, req.GetPrerelease())

		req.ID = github.Ptr(int64(42))
		req.TagName = github.Ptr("v1.0.0")
		writeJSON(t, w, http.StatusOK, &req)
	})
	rel, _ := newReleaserWithMockServer(t, mux)

	got, err := rel.UpdateRelease(context.Background(), 42, &model.ReleaseRequest{
		Repo:       testRepo,
		TagName:    "v1.0.0",
		Name:       "Renamed",
		Prerelease: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.Prerelease)
}

func TestListAssets_Paginates(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("GET /repos/octo/widget/releases/42/assets", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page <= 1 {
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/widget/releases/42/assets?page=2>; rel="next"`, server.URL))
			writeJSON(t, w, http.StatusOK, []*github.ReleaseAsset{
				{ID: github.Ptr(int64(1)), Name: github.Ptr("app.bin")},
			})
			return
		}
		writeJSON(t, w, http.StatusOK, []*github.ReleaseAsset{
			{ID: github.Ptr(int64(2)), Name: github.Ptr("lib.bin"), Size: github.Ptr(3)},
		})
	})
	rel, srv := newReleaserWithMockServer(t, mux)
	server = srv

	assets, err := rel.ListAssets(context.Background(), testRepo, 42)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "app.bin", assets[0].Name)
	assert.Equal(t, "lib.bin", assets[1].Name)
	assert.Equal(t, int64(3), assets[1].Size)
}

func TestDeleteAsset(t *testing.T) {
	var called bool
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /repos/octo/widget/releases/assets/9", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	rel, _ := newReleaserWithMockServer(t, mux)

	require.NoError(t, rel.DeleteAsset(context.Background(), testRepo, 9))
	assert.True(t, called)
}

func TestUploadAsset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /uploads/repos/octo/widget/releases/42/assets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app.bin", r.URL.Query().Get("name"))
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		assert.Equal(t, int64(5), r.ContentLength)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))

		writeJSON(t, w, http.StatusCreated, &github.ReleaseAsset{
			ID:                 github.Ptr(int64(100)),
			Name:               github.Ptr("app.bin"),
			Size:               github.Ptr(5),
			BrowserDownloadURL: github.Ptr("https://example.com/download/app.bin"),
		})
	})
	rel, server := newReleaserWithMockServer(t, mux)

	uploadURL := server.URL + "/uploads/repos/octo/widget/releases/42/assets{?name,label}"
	asset, err := rel.UploadAsset(context.Background(), uploadURL, &model.AssetUpload{
		Name:        "app.bin",
		ContentType: "application/octet-stream",
		Size:        5,
		Content:     []byte("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), asset.ID)
	assert.Equal(t, "https://example.com/download/app.bin", asset.BrowserDownloadURL)
}

func TestUploadAsset_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /uploads/repos/octo/widget/releases/42/assets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]string{"message": "Validation Failed"})
	})
	rel, server := newReleaserWithMockServer(t, mux)

	uploadURL := server.URL + "/uploads/repos/octo/widget/releases/42/assets{?name,label}"
	_, err := rel.UploadAsset(context.Background(), uploadURL, &model.AssetUpload{
		Name:    "app.bin",
		Size:    1,
		Content: []byte("x"),
	})
	assert.Error(t, err)
}

func TestExpandUploadURL(t *testing.T) {
	tests := []struct {
		template string
		name     string
		want     string
		wantErr  bool
	}{
		{
			template: "https://uploads.github.com/repos/o/r/releases/1/assets{?name,label}",
			name:     "app.bin",
			want:     "https://uploads.github.com/repos/o/r/releases/1/assets?name=app.bin",
		},
		{
			template: "https://uploads.github.com/repos/o/r/releases/1/assets",
			name:     "my app.tar.gz",
			want:     "https://uploads.github.com/repos/o/r/releases/1/assets?name=my+app.tar.gz",
		},
		{template: "", name: "x", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ExpandUploadURL(tt.template, tt.name)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestTimeZoneTransport(t *testing.T) {
	var gotTZ, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTZ = r.Header.Get("Time-Zone")
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := newHTTPClient(context.Background(), "secret", "Europe/Amsterdam")
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Europe/Amsterdam", gotTZ)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestTimeZoneTransport_Anonymous(t *testing.T) {
	var gotTZ, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTZ = r.Header.Get("Time-Zone")
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	resp, err := newHTTPClient(context.Background(), "", "").Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, gotTZ)
	assert.Empty(t, gotAuth)
}

func TestNewGitHubReleaser_BaseURL(t *testing.T) {
	rel, err := NewGitHubReleaser(Options{Token: "t", BaseURL: "https://api.github.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/", rel.client.BaseURL.String())

	rel, err = NewGitHubReleaser(Options{BaseURL: "https://ghe.example.com/api/v3"})
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", rel.client.BaseURL.String())
}
