package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/git-extra/gitx/git"
)

// DefaultHost is the public GitLab domain.
const DefaultHost = "gitlab.com"

// Config holds the settings needed to query a GitLab
// instance.
type Config struct {
	// Host is the web hostname of the instance. Leave
	// empty for gitlab.com.
	Host string
	// APIURL overrides the base URL handed to the
	// client (default "https://<host>").
	APIURL string
	// AccessToken is an optional personal or project
	// access token.
	AccessToken string
}

// Provider builds GitLab page URLs and looks up fork
// parents through the REST API.
//
// Pattern: Strategy -- implements git.ParentFinder.
type Provider struct {
	client *gl.Client
}

// NewProvider validates cfg and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating gitlab provider"

	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = "https://" + host
	}

	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Provider{client: client}, nil
}

// FindParent returns the project fork was forked from.
// It returns git.ErrNoParent when fork is not a fork.
func (p *Provider) FindParent(
	ctx context.Context,
	fork git.Remote,
) (git.Remote, error) {
	const errCtx = "looking up gitlab parent"

	pid := fork.Owner + "/" + fork.Project

	project, resp, err := p.client.Projects.GetProject(
		pid, nil, gl.WithContext(ctx),
	)
	if err != nil {
		if resp != nil {
			slog.Debug(
				"gitlab response",
				"status", resp.StatusCode,
			)
		}

		return git.Remote{}, fmt.Errorf(
			"%s: %s: %w", errCtx, pid, err,
		)
	}

	parent := project.ForkedFromProject
	if parent == nil {
		return git.Remote{}, fmt.Errorf(
			"%s: %s: %w", errCtx, pid, git.ErrNoParent,
		)
	}

	idx := strings.LastIndex(parent.PathWithNamespace, "/")
	if idx <= 0 {
		return git.Remote{}, fmt.Errorf(
			"%s: %s: unexpected parent path %q",
			errCtx, pid, parent.PathWithNamespace,
		)
	}

	return git.Remote{
		URL:     parent.HTTPURLToRepo,
		Host:    fork.Host,
		Owner:   parent.PathWithNamespace[:idx],
		Project: parent.PathWithNamespace[idx+1:],
	}, nil
}

// BrowseURL returns the page showing branch of remote.
func BrowseURL(remote git.Remote, branch string) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/-/tree/%s",
		remote.Host, remote.Owner, remote.Project,
		git.EscapeBranch(branch),
	)
}

// PullRequestURL returns the new merge request page of
// origin with branch preselected as the source. GitLab
// lets the user pick the target project on that page.
func PullRequestURL(
	origin git.Remote,
	_ git.Remote,
	branch string,
) string {
	query := url.Values{}
	query.Set("merge_request[source_branch]", branch)

	return fmt.Sprintf(
		"https://%s/%s/%s/-/merge_requests/new?%s",
		origin.Host, origin.Owner, origin.Project,
		query.Encode(),
	)
}
