package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePhone = regexp.MustCompile(`^[0-9+() -]{7,20}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a simple resource identifier (product/user/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// Phone is optional; empty passes, otherwise must look like a phone number.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, rePhone.MatchString(s)
}

// Fulfillment normalizes the fulfillment type, defaulting to delivery.
func Fulfillment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s != "delivery" && s != "pickup" {
		return "delivery"
	}
	return s
}

var allowedStatuses = map[string]bool{
	"pending": true, "confirmed": true, "ready": true, "completed": true, "cancelled": true,
}

// Status validates an order status transition target.
func Status(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, allowedStatuses[s]
}
