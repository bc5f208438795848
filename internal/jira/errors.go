package jira

import (
	"fmt"
)

const (
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	statusErrorMessageTemplateConstant      = "%s returned status %d: %s"
	authenticationErrorTemplateConstant     = "authentication rejected with status %d: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
)

// OperationName identifies a named client operation for error reporting.
type OperationName string

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// AuthenticationError reports rejected credentials. It is terminal: the caller
// must not retry with the same credentials.
type AuthenticationError struct {
	StatusCode int
	Body       string
}

// Error describes the authentication failure with the raw response body.
func (authenticationError AuthenticationError) Error() string {
	return fmt.Sprintf(authenticationErrorTemplateConstant, authenticationError.StatusCode, authenticationError.Body)
}

// StatusError reports a non-success response, carrying the raw status and body.
type StatusError struct {
	Operation  OperationName
	StatusCode int
	Body       string
}

// Error describes the failed call with its raw status and body.
func (statusError StatusError) Error() string {
	return fmt.Sprintf(statusErrorMessageTemplateConstant, statusError.Operation, statusError.StatusCode, statusError.Body)
}

// OperationError wraps transport or encoding failures for client operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}
