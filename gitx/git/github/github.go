package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	gh "github.com/google/go-github/v68/github"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/byte4ever/git-extra/gitx/git"
)

// DefaultHost is the public GitHub domain.
const DefaultHost = "github.com"

// Config holds the settings needed to query a GitHub
// instance.
type Config struct {
	// Host is the web hostname of the instance. Leave
	// empty for github.com.
	Host string
	// APIURL overrides the REST API base URL. When
	// empty, github.com uses the public API and any
	// other host is treated as GitHub Enterprise
	// ("https://<host>/api/v3/").
	APIURL string
	// AccessToken is an optional personal access
	// token. Public repositories need none.
	AccessToken string
}

// Provider builds GitHub page URLs and looks up fork
// parents through the REST API.
//
// Pattern: Strategy -- implements git.ParentFinder.
type Provider struct {
	client *gh.Client
}

// NewProvider validates cfg and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating github provider"

	client := gh.NewClient(cleanhttp.DefaultPooledClient())

	if cfg.AccessToken != "" {
		client = client.WithAuthToken(cfg.AccessToken)
	}

	apiURL := cfg.APIURL
	if apiURL == "" && cfg.Host != "" && cfg.Host != DefaultHost {
		apiURL = "https://" + cfg.Host + "/api/v3/"
	}

	if apiURL != "" {
		if _, err := url.Parse(apiURL); err != nil {
			return nil, fmt.Errorf(
				"%s: api url: %w", errCtx, err,
			)
		}

		var err error

		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w", errCtx, err,
			)
		}
	}

	return &Provider{client: client}, nil
}

// FindParent returns the repository fork was forked from.
// It returns git.ErrNoParent when fork is not a fork.
func (p *Provider) FindParent(
	ctx context.Context,
	fork git.Remote,
) (git.Remote, error) {
	const errCtx = "looking up github parent"

	repo, resp, err := p.client.Repositories.Get(
		ctx, fork.Owner, fork.Project,
	)
	if err != nil {
		if resp != nil {
			slog.Debug(
				"github response",
				"status", resp.StatusCode,
			)
		}

		return git.Remote{}, fmt.Errorf(
			"%s: %s/%s: %w",
			errCtx, fork.Owner, fork.Project, err,
		)
	}

	parent := repo.GetParent()
	if !repo.GetFork() || parent == nil {
		return git.Remote{}, fmt.Errorf(
			"%s: %s/%s: %w",
			errCtx, fork.Owner, fork.Project, git.ErrNoParent,
		)
	}

	return git.Remote{
		URL:     parent.GetSSHURL(),
		Host:    fork.Host,
		Owner:   parent.GetOwner().GetLogin(),
		Project: parent.GetName(),
	}, nil
}

// BrowseURL returns the page showing branch of remote.
func BrowseURL(remote git.Remote, branch string) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/tree/%s",
		remote.Host, remote.Owner, remote.Project,
		git.EscapeBranch(branch),
	)
}

// PullRequestURL returns the compare view on target that
// starts a pull request from branch of origin. GitHub
// opens pull requests from the upstream repository.
func PullRequestURL(
	origin git.Remote,
	target git.Remote,
	branch string,
) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/compare/%s...%s:%s",
		target.Host, target.Owner, target.Project,
		git.EscapeBranch(branch), origin.Owner, git.EscapeBranch(branch),
	)
}
