// Package quickstart bootstraps a new repository from a
// template: it clones the template, replaces its history
// with a single commit, then applies the template's
// customization manifest and commits again.
//
// A template is named by a hosted repository URL or a
// "github:owner/project" shorthand, a local directory, or a
// key of the template catalog, tried in that order.
package quickstart
