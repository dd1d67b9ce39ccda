// Package github builds GitHub browse and compare URLs and
// implements a git.ParentFinder that asks the GitHub REST
// API (cloud or enterprise) which repository a fork came
// from. A token is optional for public repositories.
package github
