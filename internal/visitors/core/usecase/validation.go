package usecase

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// visitRules mirrors RecordVisitInput; Timestamp upper bound is checked
// against the clock separately.
type visitRules struct {
	IPAddress string `validate:"required,ip"`
	Path      string `validate:"required,max=2048"`
	Referer   string `validate:"max=2048"`
	UserAgent string `validate:"max=1024"`
	Browser   string `validate:"max=128"`
	OS        string `validate:"max=128"`
	City      string `validate:"max=128"`
	Country   string `validate:"max=128"`
	Timestamp int64  `validate:"gte=0"`
}

// normalizeVisit trims the path and rewrites the ip in canonical form so that
// equivalent spellings share one visitor row and one dedupe key.
func normalizeVisit(in RecordVisitInput) RecordVisitInput {
	in.Path = strings.TrimSpace(in.Path)
	if ip, ok := canonicalIP(in.IPAddress); ok {
		in.IPAddress = ip
	}
	return in
}

// canonicalIP returns the textual form net.IP uses, e.g. IPv4-mapped IPv6
// addresses come back as plain IPv4.
func canonicalIP(raw string) (string, bool) {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return "", false
	}
	return ip.String(), true
}

func checkVisitFields(in RecordVisitInput) error {
	r := visitRules{
		IPAddress: in.IPAddress,
		Path:      in.Path,
		Referer:   in.Referer,
		UserAgent: in.UserAgent,
		Browser:   in.Browser,
		OS:        in.OS,
		City:      in.City,
		Country:   in.Country,
		Timestamp: in.Timestamp,
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidVisit, formatValidationErrors(err))
	}
	return nil
}

func formatValidationErrors(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "ip":
		return fmt.Sprintf("%s must be a valid ip address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
