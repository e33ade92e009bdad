package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// DonationIntent is the donation described by a checkout session. It is
// round-tripped through the processor's session metadata so both the
// success-page poll and the webhook can reconstruct it.
type DonationIntent struct {
	ProjectID   snowflake.ID
	UserID      *snowflake.ID
	DonorName   string
	DonorEmail  string
	AmountCents int64
}

const (
	metadataKeyProjectID  = "projectId"
	metadataKeyUserID     = "userId"
	metadataKeyDonorName  = "donorName"
	metadataKeyDonorEmail = "donorEmail"
	metadataKeyAmount     = "amount"
)

var (
	ErrInvalidMetadata = errors.New("invalid_metadata")
	ErrInvalidAmount   = errors.New("invalid_amount")
)

// EncodeMetadata flattens the intent into the string map attached to
// the checkout session. The amount travels as a decimal string such as
// "25.00".
func EncodeMetadata(intent DonationIntent) map[string]string {
	metadata := map[string]string{
		metadataKeyProjectID:  intent.ProjectID.String(),
		metadataKeyDonorName:  intent.DonorName,
		metadataKeyDonorEmail: intent.DonorEmail,
		metadataKeyAmount:     CentsToDecimalString(intent.AmountCents),
	}
	if intent.UserID != nil {
		metadata[metadataKeyUserID] = intent.UserID.String()
	}
	return metadata
}

// DecodeMetadata reconstructs the intent from session metadata. Any
// missing or malformed required field fails the decode; callers must
// not record a donation from metadata they cannot fully parse.
func DecodeMetadata(metadata map[string]string) (DonationIntent, error) {
	if metadata == nil {
		return DonationIntent{}, ErrInvalidMetadata
	}

	projectID, err := snowflake.ParseString(strings.TrimSpace(metadata[metadataKeyProjectID]))
	if err != nil || projectID == 0 {
		return DonationIntent{}, ErrInvalidMetadata
	}

	amountCents, err := DecimalStringToCents(metadata[metadataKeyAmount])
	if err != nil || amountCents <= 0 {
		return DonationIntent{}, ErrInvalidMetadata
	}

	intent := DonationIntent{
		ProjectID:   projectID,
		DonorName:   strings.TrimSpace(metadata[metadataKeyDonorName]),
		DonorEmail:  strings.TrimSpace(metadata[metadataKeyDonorEmail]),
		AmountCents: amountCents,
	}

	// The userId key travels as an empty string or the literal "null"
	// when absent. A value that does not parse also means "no user":
	// the donation still counts, it just isn't attributed.
	if raw := strings.TrimSpace(metadata[metadataKeyUserID]); raw != "" && raw != "null" {
		userID, err := snowflake.ParseString(raw)
		if err == nil && userID != 0 {
			intent.UserID = &userID
		}
	}

	return intent, nil
}

// CentsToDecimalString renders cents as a two-decimal string.
func CentsToDecimalString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// DecimalStringToCents parses a decimal amount with at most two
// fractional digits into cents.
func DecimalStringToCents(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	if strings.HasPrefix(value, "-") {
		negative = true
		value = value[1:]
	}

	wholePart := value
	fracPart := ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		wholePart = value[:idx]
		fracPart = value[idx+1:]
	}
	if wholePart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if wholePart == "" {
		wholePart = "0"
	}
	if len(fracPart) > 2 {
		return 0, ErrInvalidAmount
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	cents := whole*100 + frac
	if negative {
		cents = -cents
	}
	return cents, nil
}
