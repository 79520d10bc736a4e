package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestion_Valid(t *testing.T) {
	q, err := NewQuestion(1, "what.is.life", RRTypeTXT, RRClassIN)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), q.ID)
	assert.Equal(t, "what.is.life", q.Name)
}

func TestNewQuestion_Invalid(t *testing.T) {
	_, err := NewQuestion(1, "", RRTypeTXT, RRClassIN)
	assert.Error(t, err)

	_, err = NewQuestion(1, "name", RRType(9999), RRClassIN)
	assert.Error(t, err)

	_, err = NewQuestion(1, "name", RRTypeTXT, RRClass(99))
	assert.Error(t, err)
}

func TestQuestion_Labels(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"what.is.life", []string{"what", "is", "life"}},
		{"what.is.life.", []string{"what", "is", "life"}},
		{"single", []string{"single"}},
		{".", nil},
	}
	for _, tt := range tests {
		q := Question{Name: tt.name}
		assert.Equal(t, tt.want, q.Labels(), "name %q", tt.name)
	}
}

func TestRCode_String(t *testing.T) {
	assert.Equal(t, "NOERROR", NOERROR.String())
	assert.Equal(t, "SERVFAIL", SERVFAIL.String())
	assert.Equal(t, "NOTIMP", NOTIMP.String())
	assert.Equal(t, "REFUSED", REFUSED.String())
	assert.Equal(t, "UNKNOWN(99)", RCode(99).String())
}

func TestRRType_String(t *testing.T) {
	assert.Equal(t, "TXT", RRTypeTXT.String())
	assert.Equal(t, "A", RRTypeA.String())
	assert.Equal(t, "UNKNOWN(9999)", RRType(9999).String())
}

func TestRRType_IsValid(t *testing.T) {
	assert.True(t, RRTypeTXT.IsValid())
	assert.False(t, RRType(9999).IsValid())
}

func TestNewResourceRecord(t *testing.T) {
	rr, err := NewResourceRecord("what.is.life", RRTypeTXT, RRClassIN, 0, []byte{2, 'O', 'K'})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), rr.TTL)

	_, err = NewResourceRecord("", RRTypeTXT, RRClassIN, 0, nil)
	assert.Error(t, err)
}

func TestNewErrorResponse(t *testing.T) {
	q := Question{ID: 7, Name: "x", Type: RRTypeTXT, Class: RRClassIN}
	resp := NewErrorResponse(q, REFUSED)
	assert.Equal(t, REFUSED, resp.RCode)
	assert.Empty(t, resp.Answers)
	assert.Equal(t, q, resp.Question)
}

func TestResponse_Validate(t *testing.T) {
	q := Question{ID: 7, Name: "x", Type: RRTypeTXT, Class: RRClassIN}

	rr, err := NewResourceRecord("x", RRTypeTXT, RRClassIN, 0, []byte{0})
	require.NoError(t, err)

	resp, err := NewResponse(q, NOERROR, []ResourceRecord{rr})
	require.NoError(t, err)
	assert.Len(t, resp.Answers, 1)

	_, err = NewResponse(q, NOERROR, []ResourceRecord{{Name: ""}})
	assert.Error(t, err)

	_, err = NewResponse(Question{}, NOERROR, nil)
	assert.Error(t, err)
}
