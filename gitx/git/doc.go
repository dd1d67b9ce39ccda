// Package git provides local git repository operations,
// parsing of "git remote -v" output into Remote values, and
// a strategy interface for looking up the parent of a fork
// on different git hosting platforms.
//
// Repo wraps a working tree with the handful of commands
// the tools need: listing remotes, reading the branch,
// initialising, staging and committing. Clone creates a
// Repo from any location git accepts.
//
// ParentFinder implementations exist for GitHub, GitLab
// and Bitbucket in sub-packages. ParentFinderFunc lets
// plain functions satisfy the interface.
package git
