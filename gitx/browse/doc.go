// Package browse opens hosting platform pages for the
// remotes of the current repository: the tree view of the
// current branch and the page that starts a pull request.
//
// Remotes are looked up by name. When an upstream remote is
// needed and none is configured, the hosting platform API is
// asked for the repository the fork was created from.
// Missing remotes are warnings, never errors.
package browse
