package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestClassifyAWSError(t *testing.T) {
	tests := []struct {
		message  string
		expected ErrorCategory
	}{
		{"InvalidSubnetID.NotFound: subnet-1", ErrResourceNotFound},
		{"InvalidNetworkInterfaceID.NotFound", ErrResourceNotFound},
		{"AuthFailure", ErrPermissionDenied},
		{"RequestLimitExceeded", ErrThrottling},
		{"InvalidParameterValue", ErrInvalidInput},
		{"api error InvalidSubnetID.Malformed: Invalid id: \"subnet-zz\"", ErrInvalidInput},
		{"Throttling: Rate exceeded", ErrThrottling},
		{"read tcp: connection reset by peer", ErrNetworkError},
		{"dial tcp: lookup ec2.example: no such host", ErrNetworkError},
		{"operation error EC2: MissingRegion", ErrConfigurationError},
		{"something unexpected", ErrInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			err := ClassifyAWSError(errors.New(tt.message), SubnetResourceType, "")
			assert.Equal(t, tt.expected, err.Category)
		})
	}

	assert.Nil(t, ClassifyAWSError(nil, SubnetResourceType, ""))
}

func TestClassifyAWSError_APIErrorCodes(t *testing.T) {
	tests := []struct {
		code     string
		expected ErrorCategory
		message  string
	}{
		{"InvalidVpcID.Malformed", ErrInvalidInput, "Malformed identifier"},
		{"InvalidSubnetID.Malformed", ErrInvalidInput, "Malformed identifier"},
		{"InvalidNetworkInterfaceID.Malformed", ErrInvalidInput, "Malformed identifier"},
		{"InvalidVpcID.NotFound", ErrResourceNotFound, "Resource not found"},
		{"InvalidFilter", ErrInvalidInput, "Invalid request"},
		{"UnauthorizedOperation", ErrPermissionDenied, "Access denied"},
		{"RequestLimitExceeded", ErrThrottling, "Request throttled"},
		{"InternalError", ErrInternalError, "Internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			apiErr := &smithy.GenericAPIError{Code: tt.code, Message: "request rejected"}
			wrapped := fmt.Errorf("operation error EC2: DescribeSubnets: %w", apiErr)

			err := ClassifyAWSError(wrapped, SubnetResourceType, "vpc-1")

			assert.Equal(t, tt.expected, err.Category)
			assert.Equal(t, tt.message, err.Message)
			assert.ErrorIs(t, err, apiErr)
		})
	}
}

func TestClassifyAWSError_CodeWinsOverMessage(t *testing.T) {
	// The message mentions a timeout, but the code says the ID was malformed.
	apiErr := &smithy.GenericAPIError{Code: "InvalidSubnetID.Malformed", Message: "timeout parsing subnet-zz"}

	err := ClassifyAWSError(apiErr, SubnetResourceType, "")

	assert.True(t, IsErrorCategory(err, ErrInvalidInput))
	assert.False(t, IsErrorCategory(err, ErrNetworkError))
}

func TestIsErrorCategory(t *testing.T) {
	err := fmt.Errorf("fetch: %w", NewAWSError(ErrThrottling, SubnetResourceType, "", "Request throttled", nil))

	assert.True(t, IsErrorCategory(err, ErrThrottling))
	assert.False(t, IsErrorCategory(err, ErrInternalError))
	assert.False(t, IsErrorCategory(errors.New("plain"), ErrThrottling))
	assert.False(t, IsErrorCategory(nil, ErrThrottling))
}

func TestError_Error(t *testing.T) {
	withID := NewAWSError(ErrResourceNotFound, SubnetResourceType, "vpc-1", "Resource not found", nil)
	assert.Equal(t, "resource_not_found: Resource not found [resource: subnet/vpc-1]", withID.Error())

	withType := NewAWSError(ErrThrottling, SubnetResourceType, "", "Request throttled", nil)
	assert.Equal(t, "request_throttled: Request throttled [resource type: subnet]", withType.Error())

	bare := NewAWSError(ErrInternalError, "", "", "Internal error occurred", nil)
	assert.Equal(t, "internal_error: Internal error occurred", bare.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewAWSError(ErrInternalError, "", "", "wrapper", cause)
	assert.ErrorIs(t, err, cause)
}
