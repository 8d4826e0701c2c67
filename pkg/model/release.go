package model

// Release represents a GitHub release.
type Release struct {
	ID         int64   `json:"id" yaml:"id"`
	TagName    string  `json:"tagName" yaml:"tagName"`
	Name       string  `json:"name" yaml:"name"`
	Body       string  `json:"body,omitempty" yaml:"body,omitempty"`
	Draft      bool    `json:"draft" yaml:"draft"`
	Prerelease bool    `json:"prerelease" yaml:"prerelease"`
	UploadURL  string  `json:"uploadUrl" yaml:"uploadUrl"` // RFC 6570 template, e.g. ".../assets{?name,label}"
	HTMLURL    string  `json:"htmlUrl" yaml:"htmlUrl"`
	Repo       RepoRef `json:"repo" yaml:"repo"`
}

// ReleaseRequest contains the information needed to create or update a release.
type ReleaseRequest struct {
	Repo       RepoRef `json:"repo"`
	TagName    string  `json:"tagName"`
	Name       string  `json:"name"`
	Body       string  `json:"body"`
	Draft      bool    `json:"draft"`
	Prerelease bool    `json:"prerelease"`
}

// Asset represents a file attached to a release.
type Asset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	ContentType        string `json:"contentType"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browserDownloadUrl"`
}

// AssetUpload is a fully buffered file ready to be sent to the upload endpoint.
type AssetUpload struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// FindAsset returns the asset whose name matches exactly (case-sensitive).
func FindAsset(assets []Asset, name string) (Asset, bool) {
	for _, a := range assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}
