package cache

import (
	"fmt"
	"time"
)

const (
	CategoryCatalogKey    = "categories:all"
	RevokedTokenKeyPrefix = "blacklist:%s"
)

const (
	CategoryCatalogTTL = 10 * time.Minute
)

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedTokenKeyPrefix, jti)
}
