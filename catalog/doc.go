// Package catalog resolves quick-start template keys to
// repository URLs. The catalog is a JSON5 document of the
// form { templates: [ { key, description, url } ] }, fetched
// once and cached as catalog.json5 in the git-extra home
// directory.
package catalog
