package aws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

type ErrorCategory string

// Resource types reported in errors
const (
	SubnetResourceType           = "subnet"
	NetworkInterfaceResourceType = "network-interface"
)

const (
	// ErrResourceNotFound means the VPC, subnet or interface does not exist.
	ErrResourceNotFound ErrorCategory = "resource_not_found"

	// ErrPermissionDenied means the credentials may not describe the resource.
	ErrPermissionDenied ErrorCategory = "permission_denied"

	ErrThrottling ErrorCategory = "request_throttled"

	// ErrConfigurationError covers missing regions and unresolvable credentials.
	ErrConfigurationError ErrorCategory = "configuration_error"

	ErrNetworkError ErrorCategory = "network_error"

	// ErrInvalidInput means EC2 rejected an ID or filter, usually a malformed
	// vpc-/subnet-/eni- identifier in the source spec.
	ErrInvalidInput ErrorCategory = "invalid_input"

	ErrInternalError ErrorCategory = "internal_error"
)

// Error is a classified failure of an EC2 network lookup.
type Error struct {
	Category     ErrorCategory
	ResourceType string // subnet or network-interface
	ResourceID   string // the VPC being described, when known
	Message      string
	Underlying   error
}

func (e *Error) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("%s: %s [resource: %s/%s]", e.Category, e.Message, e.ResourceType, e.ResourceID)
	}
	if e.ResourceType != "" {
		return fmt.Sprintf("%s: %s [resource type: %s]", e.Category, e.Message, e.ResourceType)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewAWSError creates a classified error for a network lookup
func NewAWSError(category ErrorCategory, resourceType, resourceID, message string, underlying error) *Error {
	return &Error{
		Category:     category,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Message:      message,
		Underlying:   underlying,
	}
}

// IsErrorCategory reports whether err wraps an *Error of the given category.
func IsErrorCategory(err error, category ErrorCategory) bool {
	var awsErr *Error
	if errors.As(err, &awsErr) {
		return awsErr.Category == category
	}
	return false
}

// errorRule maps EC2 error codes, or fragments of transport and SDK
// messages, to a category. Rules are tried in order.
type errorRule struct {
	category ErrorCategory
	message  string
	codes    []string
}

// https://docs.aws.amazon.com/AWSEC2/latest/APIReference/errors-overview.html
var apiErrorRules = []errorRule{
	{ErrInvalidInput, "Malformed identifier", []string{
		"InvalidVpcID.Malformed",
		"InvalidSubnetID.Malformed",
		"InvalidNetworkInterfaceID.Malformed",
	}},
	{ErrResourceNotFound, "Resource not found", []string{
		"InvalidVpcID.NotFound",
		"InvalidSubnetID.NotFound",
		"InvalidNetworkInterfaceID.NotFound",
	}},
	{ErrInvalidInput, "Invalid request", []string{
		"InvalidFilter",
		"InvalidNextToken",
		"InvalidParameter",
		"InvalidParameterValue",
		"InvalidParameterCombination",
		"MissingParameter",
		"ValidationError",
		"MalformedQueryString",
	}},
	{ErrPermissionDenied, "Access denied", []string{
		"UnauthorizedOperation",
		"AuthFailure",
		"InvalidClientTokenId",
		"OptInRequired",
	}},
	{ErrThrottling, "Request throttled", []string{
		"RequestLimitExceeded",
		"Throttling",
	}},
}

var messageRules = []errorRule{
	{ErrNetworkError, "Network error while accessing EC2", []string{
		"no such host",
		"connection refused",
		"connection reset",
		"timeout",
	}},
	{ErrConfigurationError, "AWS SDK configuration error", []string{
		"could not find region",
		"MissingRegion",
		"failed to retrieve credentials",
	}},
}

// ClassifyAWSError wraps err with a category. API errors are matched on
// their exact error code; anything else falls back to the message text,
// where the code may still appear.
func ClassifyAWSError(err error, resourceType, resourceID string) *Error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		for _, rule := range apiErrorRules {
			for _, c := range rule.codes {
				if code == c {
					return NewAWSError(rule.category, resourceType, resourceID, rule.message, err)
				}
			}
		}
	}

	msg := strings.ToLower(err.Error())
	for _, rules := range [][]errorRule{apiErrorRules, messageRules} {
		for _, rule := range rules {
			for _, c := range rule.codes {
				if strings.Contains(msg, strings.ToLower(c)) {
					return NewAWSError(rule.category, resourceType, resourceID, rule.message, err)
				}
			}
		}
	}

	return NewAWSError(ErrInternalError, resourceType, resourceID, "Internal error occurred", err)
}
