package resources

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/npillmayer/nameplate/core"
	"github.com/npillmayer/schuko/gconf"
)

// DefaultAppKey is used for the cache folder if no 'app-key' is configured.
const DefaultAppKey = "nameplate"

// DownloadCachedFile will download a url to a local file (usually located in the
// user's cache directory). The file is written under a temporary name and
// renamed when complete, so readers never see partial downloads.
func DownloadCachedFile(ctx context.Context, client *http.Client, fpath string, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot request %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return core.WrapError(err, core.ECONNECTION, "cannot download %s", url)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NotFound(url, UnknownAsset)
	case resp.StatusCode != http.StatusOK:
		return core.Error(core.ECONNECTION, "download of %s: %s", url, resp.Status)
	}
	if err = os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
		return err
	}
	out, err := os.CreateTemp(filepath.Dir(fpath), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(out.Name())
	if _, err = io.Copy(out, resp.Body); err != nil {
		out.Close()
		return core.WrapError(err, core.ECONNECTION, "download of %s interrupted", url)
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(out.Name(), fpath)
}

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key, taken as `app-key` from the global configuration.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(subfolders ...string) (string, error) {
	appkey := gconf.GetString("app-key")
	tracer().Debugf("config[%s] = %s", "app-key", appkey)
	if appkey == "" {
		tracer().Infof("application key is not set, using %q", DefaultAppKey)
		appkey = DefaultAppKey
	}
	cachedir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	cachedir = filepath.Join(cachedir, appkey, filepath.Join(subfolders...))
	tracer().Infof("caching in %s", cachedir)
	if err = os.MkdirAll(cachedir, 0755); err != nil {
		return "", err
	}
	return cachedir, nil
}

// HTTPResolver resolves assets relative to a remote base URL. Downloads
// are kept in a cache folder and served from there subsequently.
type HTTPResolver struct {
	Base     *url.URL
	Client   *http.Client
	CacheDir string
}

// HTTP creates a resolver for assets below a base URL, caching in the
// user's cache directory.
func HTTP(base string) (*HTTPResolver, error) {
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, core.Error(core.EINVALID, "not a valid asset URL: %q", base)
	}
	cachedir, err := CacheDirPath("assets", u.Host)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "no cache directory for remote assets")
	}
	return &HTTPResolver{Base: u, Client: http.DefaultClient, CacheDir: cachedir}, nil
}

// Resolve serves p from the cache, downloading it first if necessary.
func (r *HTTPResolver) Resolve(ctx context.Context, p string) ([]byte, error) {
	clean, ok := cleanPath(p)
	if !ok {
		return nil, core.Error(core.EINVALID, "invalid asset path: %q", p)
	}
	local := filepath.Join(r.CacheDir, filepath.FromSlash(clean))
	if data, err := os.ReadFile(local); err == nil {
		tracer().Debugf("serving %s from cache", clean)
		return data, nil
	}
	u := *r.Base
	u.Path = path.Join("/", r.Base.Path, clean)
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	tracer().Infof("downloading %s", u.String())
	if err := DownloadCachedFile(ctx, client, local, u.String()); err != nil {
		if IsNotFound(err) {
			return nil, NotFound(p, KindOf(clean))
		}
		return nil, err
	}
	return os.ReadFile(local)
}

func (r *HTTPResolver) String() string {
	return "http:" + r.Base.String()
}
