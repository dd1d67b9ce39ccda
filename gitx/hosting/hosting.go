// Package hosting maps remotes to their git hosting
// platform and dispatches page URL construction and fork
// parent lookup to the matching provider.
package hosting

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/byte4ever/git-extra/config"
	"github.com/byte4ever/git-extra/gitx/git"
	"github.com/byte4ever/git-extra/gitx/git/bitbucket"
	"github.com/byte4ever/git-extra/gitx/git/github"
	"github.com/byte4ever/git-extra/gitx/git/gitlab"
)

// Kind identifies a hosting platform flavour.
type Kind string

// Supported kinds. Unknown hosts get KindBitbucket URLs,
// which use query strings.
const (
	KindGitHub    Kind = "github"
	KindGitLab    Kind = "gitlab"
	KindBitbucket Kind = "bitbucket"
)

var wellKnown = map[string]Kind{
	"github.com":    KindGitHub,
	"gitlab.com":    KindGitLab,
	"bitbucket.org": KindBitbucket,
}

// FinderFactory creates the parent finder for a host of
// the given kind.
type FinderFactory func(kind Kind, host string) (git.ParentFinder, error)

// Registry resolves the platform of a remote host.
type Registry struct {
	kinds     map[string]Kind
	newFinder FinderFactory

	mu      sync.Mutex
	finders map[string]git.ParentFinder
}

// NewRegistry builds a Registry from configured hosts.
// Parent finders are created on demand from cfg.
func NewRegistry(cfg config.Config) (*Registry, error) {
	const errCtx = "creating host registry"

	kinds := make(map[string]Kind, len(cfg.Hosts))

	for host, kind := range cfg.Hosts {
		k := Kind(strings.ToLower(kind))

		switch k {
		case KindGitHub, KindGitLab, KindBitbucket:
			kinds[strings.ToLower(host)] = k
		default:
			return nil, fmt.Errorf(
				"%s: host %s: unknown kind %q",
				errCtx, host, kind,
			)
		}
	}

	return &Registry{
		kinds:     kinds,
		newFinder: configFinders(cfg),
		finders:   make(map[string]git.ParentFinder),
	}, nil
}

// NewRegistryWithFinders builds a Registry that creates
// parent finders with factory instead of the REST
// providers.
func NewRegistryWithFinders(
	hosts map[string]Kind,
	factory FinderFactory,
) *Registry {
	kinds := make(map[string]Kind, len(hosts))
	for host, kind := range hosts {
		kinds[strings.ToLower(host)] = kind
	}

	return &Registry{
		kinds:     kinds,
		newFinder: factory,
		finders:   make(map[string]git.ParentFinder),
	}
}

// Kind returns the platform of host: configured hosts
// first, then well-known domains, then hostnames that
// name a platform, and KindBitbucket otherwise.
func (r *Registry) Kind(host string) Kind {
	host = strings.ToLower(host)

	if k, ok := r.kinds[host]; ok {
		return k
	}

	if k, ok := wellKnown[host]; ok {
		return k
	}

	for _, k := range []Kind{KindGitHub, KindGitLab} {
		if strings.Contains(host, string(k)) {
			return k
		}
	}

	return KindBitbucket
}

// BrowseURL returns the page showing branch of remote.
func (r *Registry) BrowseURL(remote git.Remote, branch string) string {
	switch r.Kind(remote.Host) {
	case KindGitHub:
		return github.BrowseURL(remote, branch)
	case KindGitLab:
		return gitlab.BrowseURL(remote, branch)
	default:
		return bitbucket.BrowseURL(remote, branch)
	}
}

// PullRequestURL returns the page that starts a pull
// request of branch from origin into target. The
// platform of origin decides the URL style.
func (r *Registry) PullRequestURL(
	origin git.Remote,
	target git.Remote,
	branch string,
) string {
	switch r.Kind(origin.Host) {
	case KindGitHub:
		return github.PullRequestURL(origin, target, branch)
	case KindGitLab:
		return gitlab.PullRequestURL(origin, target, branch)
	default:
		return bitbucket.PullRequestURL(origin, target, branch)
	}
}

// FindParent asks the platform of fork which repository it
// was forked from.
func (r *Registry) FindParent(
	ctx context.Context,
	fork git.Remote,
) (git.Remote, error) {
	const errCtx = "finding fork parent"

	finder, err := r.finder(strings.ToLower(fork.Host))
	if err != nil {
		return git.Remote{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	parent, err := finder.FindParent(ctx, fork)
	if err != nil {
		return git.Remote{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return parent, nil
}

func (r *Registry) finder(host string) (git.ParentFinder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.finders[host]; ok {
		return f, nil
	}

	f, err := r.newFinder(r.Kind(host), host)
	if err != nil {
		return nil, err
	}

	r.finders[host] = f

	return f, nil
}

// configFinders returns a factory creating REST providers
// from cfg. Factory: selects platform implementation at
// runtime.
func configFinders(cfg config.Config) FinderFactory {
	return func(kind Kind, host string) (git.ParentFinder, error) {
		switch kind {
		case KindGitHub:
			apiURL := cfg.GitHub.APIURL
			if host == github.DefaultHost {
				apiURL = ""
			}

			return github.NewProvider(github.Config{
				Host:        host,
				APIURL:      apiURL,
				AccessToken: cfg.GitHub.Token,
			})
		case KindGitLab:
			apiURL := cfg.GitLab.APIURL
			if host == gitlab.DefaultHost {
				apiURL = ""
			}

			return gitlab.NewProvider(gitlab.Config{
				Host:        host,
				APIURL:      apiURL,
				AccessToken: cfg.GitLab.Token,
			})
		case KindBitbucket:
			if host != "bitbucket.org" {
				return nil, fmt.Errorf(
					"no api known for host %s", host,
				)
			}

			return bitbucket.NewProvider(bitbucket.Config{
				APIURL:   cfg.Bitbucket.APIURL,
				User:     cfg.Bitbucket.User,
				Password: cfg.Bitbucket.Password,
			})
		default:
			return nil, fmt.Errorf("unknown kind %q", kind)
		}
	}
}
