package git

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Remote is a named reference to a repository on a git
// hosting service, as listed by "git remote -v".
type Remote struct {
	// Name is the local remote name, e.g. "origin". It
	// is empty for remotes discovered through a hosting
	// API rather than the local configuration.
	Name string
	// URL is the fetch URL exactly as configured.
	URL string
	// Host is the hosting service domain, e.g.
	// "github.com".
	Host string
	// Owner is the user, organisation or group path.
	Owner string
	// Project is the repository name without ".git".
	Project string
}

// UpstreamNames lists the remote names treated as the
// upstream of a fork, in order of preference.
var UpstreamNames = []string{"upstream", "official", "parent"}

var fetchLine = regexp.MustCompile(
	`^(?P<name>[A-Za-z0-9._-]+)\s+(?P<url>\S+)\s+\(fetch\)$`,
)

// hosted shorthands accepted in place of a full URL.
var shorthandHosts = map[string]string{
	"github":    "github.com",
	"gitlab":    "gitlab.com",
	"bitbucket": "bitbucket.org",
}

// ParseRemotes extracts the fetch remotes from the output
// of "git remote -v". Push lines and lines whose URL does
// not name a host, owner and project are skipped.
func ParseRemotes(out string) []Remote {
	var remotes []Remote

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		m := fetchLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		host, owner, project, ok := ParseURL(m[2])
		if !ok {
			continue
		}

		remotes = append(remotes, Remote{
			Name:    m[1],
			URL:     m[2],
			Host:    host,
			Owner:   owner,
			Project: project,
		})
	}

	return remotes
}

// ParseURL splits a hosted repository URL into host, owner
// and project. It understands scp-like
// ("git@host:owner/project.git"), ssh://, git://, http(s)://
// URLs and the "github:owner/project" style shorthands.
// ok is false for local paths and anything without both an
// owner and a project.
func ParseURL(raw string) (host, owner, project string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", "", false
	}

	if prefix, rest, found := strings.Cut(raw, ":"); found {
		if h, isShort := shorthandHosts[prefix]; isShort &&
			!strings.HasPrefix(rest, "//") {
			return splitPath(h, rest)
		}
	}

	ep, err := transport.NewEndpoint(raw)
	if err != nil || ep.Protocol == "file" || ep.Host == "" {
		return "", "", "", false
	}

	return splitPath(ep.Host, ep.Path)
}

// ExpandShorthand turns "github:owner/project" style
// shorthands into an scp-like clone URL. Other input is
// returned unchanged.
func ExpandShorthand(raw string) string {
	prefix, rest, found := strings.Cut(raw, ":")
	if !found || strings.HasPrefix(rest, "//") {
		return raw
	}

	host, isShort := shorthandHosts[prefix]
	if !isShort {
		return raw
	}

	rest = strings.TrimSuffix(strings.Trim(rest, "/"), ".git")

	return "git@" + host + ":" + rest + ".git"
}

// splitPath separates "owner/project(.git)" into its
// parts. Nested groups stay in the owner.
func splitPath(host, path string) (string, string, string, bool) {
	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return "", "", "", false
	}

	return host, path[:idx], path[idx+1:], true
}

// Find returns the remote with the given name.
func Find(remotes []Remote, name string) (Remote, bool) {
	for _, r := range remotes {
		if r.Name == name {
			return r, true
		}
	}

	return Remote{}, false
}

// FindUpstream returns the first remote whose name is one
// of UpstreamNames, in that order of preference.
func FindUpstream(remotes []Remote) (Remote, bool) {
	for _, name := range UpstreamNames {
		if r, ok := Find(remotes, name); ok {
			return r, true
		}
	}

	return Remote{}, false
}
