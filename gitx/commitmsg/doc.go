// Package commitmsg generates and parses the commit messages
// written by quick-start. The template source a project was
// created from is recorded between marker lines so that it
// can be read back from the repository history.
package commitmsg
