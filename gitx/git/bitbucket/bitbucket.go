package bitbucket

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/byte4ever/git-extra/gitx/git"
)

// DefaultAPIURL is the Bitbucket Cloud REST API root.
const DefaultAPIURL = "https://api.bitbucket.org/2.0"

// Config holds the settings needed to query Bitbucket
// Cloud.
type Config struct {
	// APIURL is the REST API root. Defaults to
	// DefaultAPIURL.
	APIURL string
	// User is an optional API username.
	User string
	// Password is the app password for User.
	Password string
}

// Provider builds Bitbucket page URLs and looks up fork
// parents through the REST API.
//
// Pattern: Strategy -- implements git.ParentFinder.
type Provider struct {
	endpoint string
	user     string
	password string
	client   *http.Client
}

type repositoryRef struct {
	FullName string `json:"full_name"`
	Links    struct {
		Clone []cloneLink `json:"clone"`
	} `json:"links"`
}

type cloneLink struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

type repository struct {
	FullName string         `json:"full_name"`
	Parent   *repositoryRef `json:"parent"`
}

// NewProvider validates cfg and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating bitbucket provider"

	endpoint := cfg.APIURL
	if endpoint == "" {
		endpoint = DefaultAPIURL
	}

	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf(
			"%s: api url: %w", errCtx, err,
		)
	}

	if cfg.User != "" && cfg.Password == "" {
		return nil, fmt.Errorf(
			"%s: password must be set with user", errCtx,
		)
	}

	return &Provider{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		user:     cfg.User,
		password: cfg.Password,
		client:   cleanhttp.DefaultPooledClient(),
	}, nil
}

// FindParent returns the repository fork was forked from.
// It returns git.ErrNoParent when fork is not a fork.
func (p *Provider) FindParent(
	ctx context.Context,
	fork git.Remote,
) (git.Remote, error) {
	const errCtx = "looking up bitbucket parent"

	full := fork.Owner + "/" + fork.Project

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		p.endpoint+"/repositories/"+
			url.PathEscape(fork.Owner)+"/"+
			url.PathEscape(fork.Project),
		http.NoBody,
	)
	if err != nil {
		return git.Remote{}, fmt.Errorf(
			"%s: build request: %w", errCtx, err,
		)
	}

	req.Header.Set("Accept", "application/json")

	if p.user != "" {
		req.SetBasicAuth(p.user, p.password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return git.Remote{}, fmt.Errorf(
			"%s: send request: %w", errCtx, err,
		)
	}

	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return git.Remote{}, fmt.Errorf(
			"%s: read response: %w", errCtx, err,
		)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug(
			"bitbucket response",
			"status", resp.Status,
			"body", string(body),
		)

		return git.Remote{}, fmt.Errorf(
			"%s: %s: unexpected status %d",
			errCtx, full, resp.StatusCode,
		)
	}

	var repo repository
	if err := json.Unmarshal(body, &repo); err != nil {
		return git.Remote{}, fmt.Errorf(
			"%s: decode response: %w", errCtx, err,
		)
	}

	if repo.Parent == nil {
		return git.Remote{}, fmt.Errorf(
			"%s: %s: %w", errCtx, full, git.ErrNoParent,
		)
	}

	owner, project, ok := strings.Cut(repo.Parent.FullName, "/")
	if !ok || owner == "" || project == "" {
		return git.Remote{}, fmt.Errorf(
			"%s: %s: unexpected parent name %q",
			errCtx, full, repo.Parent.FullName,
		)
	}

	parent := git.Remote{
		Host:    fork.Host,
		Owner:   owner,
		Project: project,
	}

	for _, link := range repo.Parent.Links.Clone {
		if link.Name == "ssh" {
			parent.URL = link.Href
		}
	}

	return parent, nil
}

// BrowseURL returns the source page of remote at branch.
// It is also used for hosts of unknown kind.
func BrowseURL(remote git.Remote, branch string) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/src?at=%s",
		remote.Host, remote.Owner, remote.Project,
		url.QueryEscape(branch),
	)
}

// PullRequestURL returns the new pull request page of
// origin with branch preselected as the source.
// Bitbucket starts pull requests from the fork.
func PullRequestURL(
	origin git.Remote,
	_ git.Remote,
	branch string,
) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/pull-requests/new?source=%s",
		origin.Host, origin.Owner, origin.Project,
		url.QueryEscape(branch),
	)
}
