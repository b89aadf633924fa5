// Package http exposes the feed pipeline over net/http.
//
// Routes are registered on a standard http.ServeMux:
//   - Feeds: one GET route per feed definition (defaults: /rss.xml,
//     /blog/rss.xml, /projects/rss.xml)
//   - Sitemap: GET /sitemap.xml and GET /robots.txt when the sitemap feature
//     is enabled
//
// Host applications can register handlers on their own mux as needed.
package http
