// Package gitlab builds GitLab tree and merge request URLs
// and implements a git.ParentFinder backed by the GitLab
// projects API.
package gitlab
