// Package markdown reads content files from a filesystem, splits their
// front-matter and renders bodies to HTML with either the built-in lite
// converter or goldmark.
package markdown
