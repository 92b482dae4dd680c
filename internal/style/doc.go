// Package style makes sure the third-party stylesheet repository consumed by the
// generator's HTML output is present in the project tree.
//
// Presence of the target directory is the only check performed: an existing
// directory is used as-is, even when stale or incomplete, and a failed clone is
// not cleaned up. When the directory is absent the repository is fetched with a
// shallow (depth 1) clone, either in-process through go-git or through the git
// binary.
package style
