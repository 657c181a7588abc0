package navigation

import "strings"

// DirLink is the root URL of a documentation directory.
func DirLink(rel string) string {
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return "/"
	}
	return "/" + rel + "/"
}

// PageLink is the URL of a markdown page, extension stripped.
func PageLink(rel, stem string) string {
	return DirLink(rel) + stem
}

func joinRel(rel, name string) string {
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
