package validate

import (
	"net/mail"
	"strings"
)

const MinPasswordLen = 6

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func Email(value string) bool {
	if !Required(value) {
		return false
	}
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

func Password(value string) bool {
	return len(value) >= MinPasswordLen
}
