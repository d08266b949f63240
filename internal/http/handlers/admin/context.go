package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/inkwell-next/internal/http/handlers/shared"
	"github.com/inkwell-next/internal/service"

	"github.com/gin-gonic/gin"
)

func currentActor(c *gin.Context) service.Actor {
	return handlershared.ActorFromContext(c)
}

func parseIDParam(c *gin.Context, invalidKey string) (uint, bool) {
	return handlershared.ParseIDParam(c, "id", invalidKey)
}

func parseUintQuery(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseBoolQuery(c *gin.Context, name string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.Query(name)))
	return err == nil && value
}
