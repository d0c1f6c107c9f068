package identitycognito

import (
	"errors"
	"fmt"

	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/Abraxas-365/userservice/pkg/logx"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// providerErrorFrom extracts the service error code from an SDK error chain.
// It reports false for failures that never reached the service.
func providerErrorFrom(err error) (identity.ProviderError, bool) {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return identity.ProviderError{}, false
	}

	perr := identity.ProviderError{
		Code:    apiErr.ErrorCode(),
		Message: apiErr.ErrorMessage(),
		Raw:     err,
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		perr.RequestID = respErr.ServiceRequestID()
		perr.HTTPStatus = respErr.HTTPStatusCode()
	}
	return perr, true
}

// fail normalizes provider errors exactly once. Anything else is returned
// unclassified for the boundary to treat as an internal failure.
func fail(operation string, err error) error {
	if perr, ok := providerErrorFrom(err); ok {
		return identity.Normalize(perr, operation)
	}

	logx.WithField("operation", operation).
		WithError(err).
		Error("Identity provider unreachable")
	return fmt.Errorf("%s: %w", operation, err)
}
