package mt9

import (
	"fmt"
	"strings"

	"swiftgen/mt9gen/internal/models"
)

// Optional is a header or trailer value that is either absent or holds its
// final formatted text. The choice is made once, when settings are built.
type Optional struct {
	value string
	set   bool
}

// Some returns a present Optional.
func Some(value string) Optional {
	return Optional{value: value, set: true}
}

// None returns an absent Optional.
func None() Optional {
	return Optional{}
}

// OptionalString returns None for a blank value and Some otherwise.
func OptionalString(value string) Optional {
	if strings.TrimSpace(value) == "" {
		return None()
	}
	return Some(strings.TrimSpace(value))
}

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Optional) IsSet() bool {
	return o.set
}

// Direction of the application header.
type Direction string

const (
	// Input is a message sent to SWIFT.
	Input Direction = "I"
	// Output is a message delivered by SWIFT.
	Output Direction = "O"
)

// ParseDirection validates a direction from configuration.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case Input, Output:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported direction %q (must be I or O)", s)
	}
}

// MIR is the Message Input Reference of an output application header. It
// is either generated when each message is opened or a fixed literal.
type MIR struct {
	auto  bool
	value string
}

// AutoMIR generates a reference from the clock, sender BIC, session and
// sequence number.
func AutoMIR() MIR {
	return MIR{auto: true}
}

// LiteralMIR uses value as the reference for every message.
func LiteralMIR(value string) MIR {
	return MIR{value: value}
}

// IsAuto reports whether the reference is generated.
func (m MIR) IsAuto() bool {
	return m.auto
}

// Value returns the literal reference. It is empty for AutoMIR.
func (m MIR) Value() string {
	return m.value
}

// BasicHeader holds the fields of block 1.
type BasicHeader struct {
	AppID     string
	ServiceID string
	Session   string
	Sequence  string
}

// ApplicationHeader holds the fields of block 2. Delivery monitoring and
// obsolescence apply to input messages; the times, output date and MIR to
// output messages.
type ApplicationHeader struct {
	Direction          Direction
	Priority           string
	DeliveryMonitoring string
	Obsolescence       string
	InputTime          string
	OutputDate         string
	OutputTime         string
	MIR                MIR
}

// UserHeader holds the fields of block 3.
type UserHeader struct {
	BankingPriority Optional
	UserReference   string
}

// Settings configure one Assembler.
type Settings struct {
	MessageType models.MessageType
	Basic       BasicHeader
	Application ApplicationHeader
	User        UserHeader
	Checksum    Optional
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MessageType: models.MT940,
		Basic: BasicHeader{
			AppID:     "F",
			ServiceID: "21",
			Session:   "0000",
			Sequence:  "000000",
		},
		Application: ApplicationHeader{
			Direction:  Input,
			Priority:   "N",
			InputTime:  "0000",
			OutputDate: "000000",
			OutputTime: "0000",
			MIR:        AutoMIR(),
		},
		User: UserHeader{
			BankingPriority: None(),
			UserReference:   "MT940950GEN",
		},
		Checksum: None(),
	}
}

// BankingPriority formats field 113 as four digits, or None when blank.
func BankingPriority(code string) Optional {
	code = strings.TrimSpace(code)
	if code == "" {
		return None()
	}
	return Some(padLeft(code, 4, '0'))
}
