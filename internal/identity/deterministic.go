package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SiteUUID keys a site by its domain.
func SiteUUID(domain string) uuid.UUID {
	return UUID("sitebuilder:site:" + strings.ToLower(strings.TrimSpace(domain)))
}

// PageUUID keys a page by its site and full slug path.
func PageUUID(siteID uuid.UUID, path string) uuid.UUID {
	return UUID("sitebuilder:page:" + siteID.String() + ":" + strings.Trim(strings.ToLower(strings.TrimSpace(path)), "/"))
}

// WidgetID derives a stable widget id for a node of a container.
func WidgetID(containerID uuid.UUID, key string) string {
	return UUID("sitebuilder:widget:" + containerID.String() + ":" + strings.TrimSpace(key)).String()
}
