// Package bitbucket builds Bitbucket source and pull
// request URLs, which also serve as the query-string
// fallback for unknown hosts, and implements a
// git.ParentFinder against the Bitbucket Cloud REST API.
package bitbucket
