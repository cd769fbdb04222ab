package search

import (
	"fmt"
	"net/url"

	"github.com/kailas-cloud/opsmap/internal/domain/entity"
)

// entityRoute links to an entity's detail page, or its listing when the slug is unknown.
func entityRoute(kind entity.Kind, slug string) string {
	if slug == "" || kind == entity.Action {
		return kind.ListingRoute()
	}
	return kind.ListingRoute() + "/" + url.PathEscape(slug)
}

// actionRoute deep-links to an action inside its parent process.
func actionRoute(parentSlug, actionID string) string {
	q := url.Values{}
	q.Set("actionId", actionID)
	return entityRoute(entity.Process, parentSlug) + "?" + q.Encode()
}

// actionTitle labels an action by its position in the parent process.
func actionTitle(sequence int, processName string) string {
	return fmt.Sprintf("Action %d in %s", sequence, processName)
}
