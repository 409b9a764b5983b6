package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeEmptyInput, "price panel has no rows")
	suite.NotNil(err)
	suite.Equal(ErrCodeEmptyInput, err.Code)
	suite.Equal("price panel has no rows", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidWindow, "window must be positive, got %d", -3)
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidWindow, err.Code)
	suite.Equal("window must be positive, got -3", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFetchFailed, "download failed", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeFetchFailed, err.Code)
	suite.Equal("download failed", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeNoDataFound, cause, "no data fetched for ticker: %s", "NVDA")
	suite.NotNil(err)
	suite.Equal(ErrCodeNoDataFound, err.Code)
	suite.Equal("no data fetched for ticker: NVDA", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeEmptyInput, "price panel has no rows")
	suite.Equal("[100] price panel has no rows", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNoDataFound, "no data found", cause)
	suite.Equal("[200] no data found: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNoDataFound, "no data found", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInsufficientColumns, "need at least two columns")
	suite.Equal(ErrCodeInsufficientColumns, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeNoDataFound, "no data found")
	err := Wrap(ErrCodeFetchFailed, "fetch failed", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeFetchFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromForeignError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeEmptyInput, "empty input")
	suite.True(HasCode(err, ErrCodeEmptyInput))
	suite.False(HasCode(err, ErrCodeNoDataFound))
}

func (suite *ErrorTestSuite) TestIsEmptyInputError() {
	suite.True(IsEmptyInputError(New(ErrCodeEmptyInput, "empty input")))
	suite.False(IsEmptyInputError(New(ErrCodeNoDataFound, "no data")))
	suite.False(IsEmptyInputError(errors.New("standard error")))
}

func (suite *ErrorTestSuite) TestIsInsufficientColumnsError() {
	suite.True(IsInsufficientColumnsError(New(ErrCodeInsufficientColumns, "one column")))
	suite.False(IsInsufficientColumnsError(New(ErrCodeEmptyInput, "empty input")))
}

func (suite *ErrorTestSuite) TestNewInsufficientData() {
	err := NewInsufficientDataf(60, 10, "not enough data points for window size %d", 60)
	suite.Equal(ErrCodeInsufficientData, err.Code)
	suite.Equal("not enough data points for window size 60", err.Message)
	suite.True(IsInsufficientDataError(err))

	var typed *InsufficientDataError
	suite.True(As(err, &typed))
	suite.Equal(60, typed.Required)
	suite.Equal(10, typed.Actual)
}

func (suite *ErrorTestSuite) TestInsufficientDataSurvivesWrapping() {
	inner := NewInsufficientData(60, 10, "not enough data points")
	outer := fmt.Errorf("analysis pass failed: %w", inner)
	suite.True(IsInsufficientDataError(outer))
}
