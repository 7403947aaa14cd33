package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v79/github"
	"github.com/mcp-github/mcp-github/pkg/utils"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Kind classifies an OperationError.
type Kind string

const (
	// KindValidation is a missing or malformed tool argument.
	KindValidation Kind = "validation"
	// KindConfiguration is missing process configuration, such as the access token.
	KindConfiguration Kind = "configuration"
	// KindRemoteAPI is a failure reported by (or while talking to) the GitHub API.
	KindRemoteAPI Kind = "remote_api"
)

// UnknownErrorMessage is used when the remote side gives no message of its own.
const UnknownErrorMessage = "Unknown error"

// OperationError is the normalized failure of a tool operation. Its Error() is
// exactly Message, which is what agents see; Err is kept for logs only.
type OperationError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a bad tool argument.
func NewValidationError(message string) *OperationError {
	return &OperationError{Kind: KindValidation, Message: message}
}

// NewConfigurationError reports missing process configuration.
func NewConfigurationError(message string) *OperationError {
	return &OperationError{Kind: KindConfiguration, Message: message}
}

// NewRemoteAPIError maps an error returned by go-github into an OperationError,
// keeping the API's own message and the HTTP status code.
func NewRemoteAPIError(resp *github.Response, err error) *OperationError {
	opErr := &OperationError{
		Kind:    KindRemoteAPI,
		Message: UnknownErrorMessage,
		Err:     err,
	}

	var (
		errResp   *github.ErrorResponse
		rateErr   *github.RateLimitError
		abuseErr  *github.AbuseRateLimitError
		remoteMsg string
		httpResp  *http.Response
	)
	switch {
	case errors.As(err, &errResp):
		remoteMsg, httpResp = errResp.Message, errResp.Response
	case errors.As(err, &rateErr):
		remoteMsg, httpResp = rateErr.Message, rateErr.Response
	case errors.As(err, &abuseErr):
		remoteMsg, httpResp = abuseErr.Message, abuseErr.Response
	}

	if remoteMsg != "" {
		opErr.Message = remoteMsg
	}
	if httpResp != nil {
		opErr.StatusCode = httpResp.StatusCode
	} else if resp != nil && resp.Response != nil {
		opErr.StatusCode = resp.StatusCode
	}
	return opErr
}

// NewRemoteAPIStatusError handles calls where go-github reported no error but the
// status code is not the one the operation expects.
func NewRemoteAPIStatusError(resp *github.Response) *OperationError {
	msg := http.StatusText(resp.StatusCode)
	if msg == "" {
		msg = UnknownErrorMessage
	}
	return &OperationError{
		Kind:       KindRemoteAPI,
		Message:    msg,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
	}
}

type operationErrorsKey struct{}

type operationErrors struct {
	errs []*OperationError
}

// ContextWithOperationErrors returns a context that collects OperationErrors for
// middleware. Reusing a context that already has a collector resets it.
func ContextWithOperationErrors(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if val, ok := ctx.Value(operationErrorsKey{}).(*operationErrors); ok {
		val.errs = nil
		return ctx
	}
	return context.WithValue(ctx, operationErrorsKey{}, &operationErrors{})
}

// RecordOperationError appends err to the collector in ctx, if there is one.
func RecordOperationError(ctx context.Context, err *OperationError) {
	if ctx == nil || err == nil {
		return
	}
	if val, ok := ctx.Value(operationErrorsKey{}).(*operationErrors); ok {
		val.errs = append(val.errs, err)
	}
}

// GetOperationErrors returns the errors recorded in ctx.
func GetOperationErrors(ctx context.Context) ([]*OperationError, error) {
	if val, ok := ctx.Value(operationErrorsKey{}).(*operationErrors); ok {
		return val.errs, nil
	}
	return nil, fmt.Errorf("context does not contain operation errors")
}

// NewOperationErrorResponse records err in ctx and returns the failure result
// an agent sees for it. Errors that are not OperationErrors are reported with
// the generic message so no internal detail leaks.
func NewOperationErrorResponse(ctx context.Context, err error) *mcp.CallToolResult {
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		opErr = &OperationError{Kind: KindRemoteAPI, Message: UnknownErrorMessage, Err: err}
	}
	RecordOperationError(ctx, opErr)
	return utils.NewToolResultError(opErr.Message)
}
