// Package cli implements the cargodesk command-line tool.
//
// It shares configuration and wiring with the server and operates directly
// on the configured store:
//   - migrate: apply schema migrations
//   - seed: create a minimal working data set
//   - stats: print record counts per kind
//   - export: write a snapshot archive to a file or the S3 vault
//   - import: restore a snapshot archive from a file or the S3 vault
//   - info: print the manifest of an archive
package cli
