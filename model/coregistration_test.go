package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coregReport = `./TCP_TW_4/M_Ss/20200113/coreg range: 0.5 azimuth: 0.1
./TCP_TW_4/M_Ss/20200113/coreg range: 0.3 azimuth: 0.4
./TCP_TW_4/M_Ss/20200125/coreg range: 0.1 azimuth: 0.15
./TCP_TW_4/M_Ss/20200125/coreg range: 0.05 azimuth: 0.2
`

func TestParseCoregistration(t *testing.T) {
	c, err := ParseCoregistration(strings.NewReader(coregReport), "")
	require.NoError(t, err)

	require.Len(t, c.First, 2)
	require.Len(t, c.Second, 2)
	assert.Equal(t, Offset{Period: "20200113", Range: 0.3, Azimuth: 0.4}, c.First[0])
	assert.Equal(t, Offset{Period: "20200113", Range: 0.5, Azimuth: 0.1}, c.Second[0])
	assert.Equal(t, []string{"20200113", "20200125"}, c.Periods())

	first, second := c.Series(AxisAzimuth)
	assert.Equal(t, []float64{0.4, 0.2}, first)
	assert.Equal(t, []float64{0.1, 0.15}, second)
}

func TestParseCoregistration_CustomPrefix(t *testing.T) {
	c, err := ParseCoregistration(strings.NewReader("/data/run/20210101/x range: 1 azimuth: 2\n"), "/data/run/")
	require.NoError(t, err)
	require.Len(t, c.Second, 1)
	assert.Equal(t, "20210101", c.Second[0].Period)
	assert.Empty(t, c.First)
}

func TestParseCoregistration_Malformed(t *testing.T) {
	_, err := ParseCoregistration(strings.NewReader("no numbers here\n"), "")
	assert.Error(t, err)

	_, err = ParseCoregistration(strings.NewReader("p range: x azimuth: 1\n"), "")
	assert.Error(t, err)
}

func TestCoregistration_Correct(t *testing.T) {
	c, err := ParseCoregistration(strings.NewReader(coregReport), "")
	require.NoError(t, err)

	corrections := c.Correct()

	// Range 0.5 > 0.3 and > 0.2 is replaced; azimuth 0.15 > 0.2 is not.
	require.Len(t, corrections, 1)
	assert.Equal(t, Correction{Axis: AxisRange, Period: "20200113", From: 0.5, To: 0.3}, corrections[0])
	assert.Equal(t, 0.3, c.Second[0].Range)
	assert.Equal(t, 0.1, c.Second[0].Azimuth)

	assert.Empty(t, c.Correct())
}
