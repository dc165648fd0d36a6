package common

// SessionTokenHeaderName is the HTTP header carrying the session token.
const SessionTokenHeaderName = "X-Token"

// SessionKeyPrefix prefixes session tokens in the TTL key-value store.
const SessionKeyPrefix = "auth_"

// Queue names.
const (
	QueueThumbnails = "thumbnails"
	QueueWelcome    = "welcome"
)

// ThumbnailWidths lists the rendition widths derived from every uploaded image.
var ThumbnailWidths = []int{100, 250, 500}

// PageSize is the number of files returned per listing page.
const PageSize = 20
