package asset

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Scheme used for resources bundled into the binary.
const EmbeddedScheme = "embedded"

// The file system that serves embedded:// resources.
var embedded fs.FS

// Register the file system used to serve embedded resources.
func RegisterEmbedded(fsys fs.FS) {
	embedded = fsys
}

// A streamable schema source. Resources can be local files, http(s) URLs or
// files bundled into the binary.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the Resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme == "http" || r.url.Scheme == "https"
}

// Create a new Resource. If relTo is specified and pathToResource does not
// define a scheme, the new resource path is resolved against the directory
// of relTo. The caller must close the returned resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	resURL, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	if resURL.Scheme == "" && relTo != nil && !filepath.IsAbs(resURL.Path) {
		resURL, err = resolveRelative(resURL.Path, relTo.url)
		if err != nil {
			return nil, err
		}
	}

	var reader io.ReadCloser
	switch resURL.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(resURL.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(resURL.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", resURL.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", resURL.String(), resp.StatusCode)
		}
		reader = resp.Body
	case EmbeddedScheme:
		if embedded == nil {
			return nil, fmt.Errorf("resource: no embedded resources registered")
		}
		reader, err = embedded.Open(strings.TrimPrefix(resURL.Host+resURL.Path, "/"))
		if err != nil {
			return nil, fmt.Errorf("resource: %s", err)
		}
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", resURL.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        resURL,
	}, nil
}

// Create a resource from a reader.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	resURL, err := url.Parse(name)
	if err != nil {
		resURL = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        resURL,
	}
}

// Resolve a relative path against the location of a parent resource.
func resolveRelative(relPath string, parent *url.URL) (*url.URL, error) {
	if parent.Scheme == EmbeddedScheme {
		return &url.URL{
			Scheme: EmbeddedScheme,
			Path:   "/" + path.Join(path.Dir(parent.Host+parent.Path), relPath),
		}, nil
	}

	if parent.Scheme != "" {
		out := *parent
		out.Path = path.Join(path.Dir(parent.Path), relPath)
		return &out, nil
	}

	prefix, err := filepath.Abs(parent.Path)
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for %s; %s", parent.String(), err.Error())
	}
	return &url.URL{Path: filepath.Join(filepath.Dir(prefix), relPath)}, nil
}
