package models

import (
	"fmt"
	"strings"
)

// MessageType is the SWIFT statement message type to produce.
type MessageType string

const (
	// MT940 is the customer statement message.
	MT940 MessageType = "940"
	// MT950 is the interbank statement message. It never carries field 86.
	MT950 MessageType = "950"
)

// ParseMessageType validates a message type from configuration. A leading
// "MT" is accepted.
func ParseMessageType(s string) (MessageType, error) {
	v := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "MT")
	switch MessageType(v) {
	case MT940, MT950:
		return MessageType(v), nil
	default:
		return "", fmt.Errorf("unsupported message type %q (must be 940 or 950)", s)
	}
}

// DateLayout names the order of day, month and year in source dates.
type DateLayout string

const (
	LayoutYYYYMMDD DateLayout = "YYYYMMDD"
	LayoutDDMMYYYY DateLayout = "DDMMYYYY"
	LayoutMMDDYYYY DateLayout = "MMDDYYYY"
)

// ParseDateLayout validates a date layout from configuration.
func ParseDateLayout(s string) (DateLayout, error) {
	switch l := DateLayout(strings.ToUpper(strings.TrimSpace(s))); l {
	case LayoutYYYYMMDD, LayoutDDMMYYYY, LayoutMMDDYYYY:
		return l, nil
	default:
		return "", fmt.Errorf("unsupported date format %q (must be YYYYMMDD, DDMMYYYY or MMDDYYYY)", s)
	}
}
