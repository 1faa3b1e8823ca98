package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/captivegate/captivegate/src/internal/portalurl"
	"github.com/captivegate/captivegate/src/internal/utils"
)

// maxIfNameLen is IFNAMSIZ minus the terminating NUL.
const maxIfNameLen = 15

// ValidationError represents a single validation error with context
type ValidationError struct {
	FieldPath string // Dot-notation field path (e.g., "general.interface", "policy.whitelist_macs[0]")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	custom := map[string]validator.Func{
		"ifname":         validateIfNameTag,
		"upstream_url":   validateUpstreamURLTag,
		"login_url":      validateLoginURLTag,
		"domain_or_ipv4": validateDomainOrIPv4Tag,
		"mac":            validateMACTag,
	}
	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	sections := []struct {
		name  string
		value interface{}
	}{
		{"general", c.General},
		{"kernel", c.Kernel},
		{"dns", c.DNS},
		{"api", c.API},
		{"policy", c.Policy},
	}

	for _, section := range sections {
		if reflect.ValueOf(section.value).IsNil() {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: section.name,
				Message:   fmt.Sprintf("configuration must contain '%s' section", section.name),
			})
			continue
		}
		if err := validate.Struct(section.value); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, section.name)...)
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

// ValidateInterfaceName checks a name against kernel interface naming rules.
func ValidateInterfaceName(name string) error {
	if name == "" {
		return fmt.Errorf("interface name is empty")
	}
	if len(name) > maxIfNameLen {
		return fmt.Errorf("interface name %q is longer than %d bytes", name, maxIfNameLen)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, "/:") || !utils.IsLineSafe(name) {
		return fmt.Errorf("interface name %q contains invalid characters", name)
	}
	return nil
}

// ValidateUpstreamURL validates DNS upstream URL format
func ValidateUpstreamURL(upstream string) error {
	if upstream == "" {
		return fmt.Errorf("upstream URL cannot be empty")
	}

	addr := upstream
	if strings.Contains(upstream, "://") {
		if !strings.HasPrefix(upstream, "udp://") {
			return fmt.Errorf("unsupported upstream scheme (supported: udp://)")
		}
		addr = strings.TrimPrefix(upstream, "udp://")
	}

	host := addr
	if h, port, err := net.SplitHostPort(addr); err == nil {
		if !utils.IsValidPort(port) {
			return fmt.Errorf("invalid upstream port: %s", port)
		}
		host = h
	}
	if net.ParseIP(host) == nil {
		return fmt.Errorf("upstream host must be an IP address: %s", host)
	}
	return nil
}

func validateIfNameTag(fl validator.FieldLevel) bool {
	return ValidateInterfaceName(fl.Field().String()) == nil
}

func validateUpstreamURLTag(fl validator.FieldLevel) bool {
	return ValidateUpstreamURL(fl.Field().String()) == nil
}

func validateLoginURLTag(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	if _, err := portalurl.Parse(value); err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateDomainOrIPv4Tag(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return utils.IsIPv4Literal(value) || utils.IsDNSName(value)
}

// validateMACTag replaces the built-in "mac" check (net.ParseMAC) so that
// config accepts exactly the 6-byte forms the gate accepts.
func validateMACTag(fl validator.FieldLevel) bool {
	_, err := utils.ParseMAC(fl.Field().String())
	return err == nil
}

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "hostname_port":
		return "must be in format 'host:port'"
	case "ifname":
		return fmt.Sprintf("must be a valid interface name (1-%d bytes, no whitespace or '/')", maxIfNameLen)
	case "upstream_url":
		return "must be a valid upstream (udp://ip:port or ip[:port])"
	case "login_url":
		return "must be an http(s) URL using only known {{placeholders}}"
	case "domain_or_ipv4":
		return "must be a domain name or an IPv4 address"
	case "mac":
		return "must be a MAC address (aa:bb:cc:dd:ee:ff or aabbccddeeff)"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				fieldPath = fieldPrefix + "." + e.Field()
			}

			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
