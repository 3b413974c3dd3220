package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/idcard-intake/constants"
)

func TestRulesParseFields(t *testing.T) {
	f := Rules{}.ParseFields("Name: Ravi Kumar\nDOB: 01-01-1985\nMale\n9988776655\n1234 5678 9012")

	assert.Equal(t, "Ravi", f.FirstName)
	assert.Equal(t, "Kumar", f.LastName)
	require.NotNil(t, f.DateOfBirth)
	assert.Equal(t, "1985-01-01", *f.DateOfBirth)
	require.NotNil(t, f.Gender)
	assert.Equal(t, constants.Male, *f.Gender)
	require.NotNil(t, f.Phone)
	assert.Equal(t, "+91 99887 76655", *f.Phone)
	require.NotNil(t, f.Identifier)
	assert.Equal(t, "123456789012", *f.Identifier)
}

func TestRulesParseFieldsEmpty(t *testing.T) {
	assert.True(t, Rules{}.ParseFields("").IsEmpty())
}
