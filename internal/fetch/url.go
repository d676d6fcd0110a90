package fetch

import (
	"fmt"
	"strings"
)

// NormalizePath turns Windows separators into forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// BuildRawURL joins the raw file host with owner, repo, ref and path.
// Leading slashes on the path are dropped.
func BuildRawURL(base, owner, repo, ref, remotePath string) string {
	remotePath = strings.TrimLeft(NormalizePath(remotePath), "/")
	return fmt.Sprintf("%s/%s/%s/%s/%s", base, owner, repo, ref, remotePath)
}
