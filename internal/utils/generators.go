package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func NewID() string {
	return uuid.NewString()
}

// GenerateOrderID returns a short display token such as ORD-m2x9k1qz-3F9A.
// It is time-derived and never parsed back.
func GenerateOrderID() string {
	return GenerateOrderIDAt(time.Now())
}

func GenerateOrderIDAt(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return "ORD-" + strconv.FormatInt(t.UnixMilli(), 36) + "-" + suffix
}
