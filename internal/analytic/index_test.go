package analytic

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/marketlens/internal/frame"
	"github.com/rxtech-lab/marketlens/pkg/errors"
)

type EqualWeightIndexTestSuite struct {
	suite.Suite
}

func TestEqualWeightIndexSuite(t *testing.T) {
	suite.Run(t, new(EqualWeightIndexTestSuite))
}

func (suite *EqualWeightIndexTestSuite) TestFirstValueIsOne() {
	returns := priceFrame(suite.T(), []string{"A", "B"},
		[][]float64{{0.01, 0.02}, {0.03, -0.01}, {-0.02, 0.04}})

	index, err := EqualWeightIndex(returns)
	suite.NoError(err)
	suite.Equal(EqualWeightIndexName, index.Name())
	suite.Equal(returns.Rows(), index.Len())
	// mean of ones
	suite.Equal(1.0, index.First())
}

func (suite *EqualWeightIndexTestSuite) TestReturnSpaceNormalization() {
	returns := priceFrame(suite.T(), []string{"A", "B"},
		[][]float64{{0.02, 0.04}, {0.04, 0.02}})

	index, err := EqualWeightIndex(returns)
	suite.NoError(err)
	// row 1: mean(0.04/0.02, 0.02/0.04) = mean(2.0, 0.5) = 1.25
	suite.InDelta(1.25, index.At(1), 1e-12)
}

func (suite *EqualWeightIndexTestSuite) TestSingleColumn() {
	returns := priceFrame(suite.T(), []string{"A"}, [][]float64{{0.02}, {0.01}})

	index, err := EqualWeightIndex(returns)
	suite.NoError(err)
	suite.Equal(1.0, index.First())
	suite.InDelta(0.5, index.At(1), 1e-12)
}

func (suite *EqualWeightIndexTestSuite) TestEmptyInput() {
	_, err := EqualWeightIndex(frame.Frame{})
	suite.Error(err)
	suite.True(errors.IsEmptyInputError(err))
}
