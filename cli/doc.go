// Package cli builds the git-extra and bit command trees
// with spf13/cobra and maps their outcome to exit codes:
// 0 on success or help, 200 on any error.
package cli
