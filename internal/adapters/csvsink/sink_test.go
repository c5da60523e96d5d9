package csvsink

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icane/internal/domain"
	"icane/internal/errors"
)

func TestSink(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(&buf, "")
	require.NoError(t, err)

	require.NoError(t, s.WriteHeader([]string{"Sex", "Year", "Value"}))
	require.NoError(t, s.WriteRow(domain.Row{"Men", "2001", json.Number("10.5")}))
	require.NoError(t, s.WriteRow(domain.Row{"Women, adult", "2001", nil}))
	require.NoError(t, s.Close())

	assert.Equal(t, "Sex,Year,Value\nMen,2001,10.5\n\"Women, adult\",2001,\n", buf.String())
	assert.Error(t, s.WriteHeader([]string{"again"}))
}

func TestSinkDelimiter(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(&buf, ";")
	require.NoError(t, err)
	require.NoError(t, s.WriteRow(domain.Row{"a", true, 3}))
	require.NoError(t, s.Abort())
	assert.Equal(t, "a;true;3\n", buf.String())

	_, err = New(&buf, ";;")
	assert.True(t, errors.IsInvalidRequestError(err))
}
